package domain

// GuestField 客户表格列（存储列 + 派生展示列）
type GuestField string

const (
	FieldID               GuestField = "id"
	FieldGuestName        GuestField = "guest_name"
	FieldGuestPhoneNumber GuestField = "guest_phone_number"
	FieldHouseAddress     GuestField = "house_address" // 派生自 house_id
	FieldManagerName      GuestField = "manager_name"  // 派生自 house.manager_id，始终只读
	FieldViewDate         GuestField = "view_date"
	FieldStatus           GuestField = "status"
	FieldMarketerName     GuestField = "marketer_name" // 派生自 marketer_id
	FieldCreatedAt        GuestField = "created_at"
	FieldAdminNote        GuestField = "admin_note"
	FieldManagerNote      GuestField = "manager_note"
)

// GuestFields 表格列顺序
var GuestFields = []GuestField{
	FieldID,
	FieldGuestName,
	FieldGuestPhoneNumber,
	FieldHouseAddress,
	FieldManagerName,
	FieldViewDate,
	FieldStatus,
	FieldMarketerName,
	FieldCreatedAt,
	FieldAdminNote,
	FieldManagerNote,
}

// GuestFieldLabels 列展示名
var GuestFieldLabels = map[GuestField]string{
	FieldID:               "ID",
	FieldGuestName:        "Tên khách",
	FieldGuestPhoneNumber: "Số điện thoại",
	FieldHouseAddress:     "Địa chỉ nhà",
	FieldManagerName:      "Quản lý nhà",
	FieldViewDate:         "Ngày và giờ xem",
	FieldStatus:           "Trạng thái",
	FieldMarketerName:     "Nhân viên marketing",
	FieldCreatedAt:        "Ngày tạo",
	FieldAdminNote:        "Ghi chú admin",
	FieldManagerNote:      "Ghi chú quản lý",
}

// ParseGuestField 将展示名或存储列名映射回列
func ParseGuestField(key string) (GuestField, bool) {
	for _, f := range GuestFields {
		if string(f) == key || GuestFieldLabels[f] == key {
			return f, true
		}
	}
	return "", false
}

// Label 列展示名
func (f GuestField) Label() string {
	if l, ok := GuestFieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// AccountFieldLabels 账号表格列展示名
var AccountFieldLabels = map[string]string{
	"full_name":    "Họ và tên",
	"phone_number": "Số điện thoại",
	"role":         "Vai trò",
}

// HouseFieldLabels 房源表格列展示名
var HouseFieldLabels = map[string]string{
	"address":      "Địa chỉ",
	"manager_name": "Quản lý",
}
