package service

// 用户可见文案（越南语，与前端保持一致）
const (
	MsgMissingFields    = "Vui lòng điền đầy đủ thông tin"
	MsgNoChanges        = "Không có thay đổi nào để lưu"
	MsgPermissionDenied = "Bạn không có quyền thực hiện thao tác này"
	MsgInternalError    = "Đã xảy ra lỗi, vui lòng thử lại"
	MsgInvalidRole      = "Vai trò không hợp lệ"

	MsgGuestCreated       = "Thêm khách thành công"
	MsgGuestCreateFailed  = "Không thể thêm khách"
	MsgGuestUpdated       = "Cập nhật thành công"
	MsgGuestUpdateFailed  = "Không thể cập nhật"
	MsgGuestDeleted       = "Xóa khách thành công"
	MsgGuestDeleteFailed  = "Không thể xóa khách"
	MsgGuestNotFound      = "Không tìm thấy khách"
	MsgGuestLoadFailed    = "Không thể tải danh sách khách"
	MsgUnresolvedHouse    = "Không tìm thấy nhà"
	MsgUnresolvedMarketer = "Không tìm thấy nhân viên marketing"
	MsgInvalidStatus      = "Trạng thái không hợp lệ"
	MsgInvalidViewDate    = "Ngày giờ xem không hợp lệ"
	MsgInvalidRow         = "Dòng không hợp lệ"

	MsgPhoneTaken          = "Số điện thoại đã được sử dụng"
	MsgAccountCreated      = "Tạo tài khoản thành công"
	MsgAccountCreateFailed = "Lỗi khi tạo tài khoản"
	MsgAccountUpdated      = "Cập nhật tài khoản thành công"
	MsgAccountUpdateFailed = "Không thể cập nhật tài khoản"
	MsgAccountDeleted      = "Xóa tài khoản thành công"
	MsgAccountDeleteFailed = "Không thể xóa tài khoản"
	MsgAccountNotFound     = "Không tìm thấy tài khoản"
	MsgAccountDeleteSelf   = "Không thể xóa tài khoản đang đăng nhập"
	MsgAccountLoadFailed   = "Không thể tải danh sách tài khoản"
	MsgRegistered          = "Đăng ký thành công"
	MsgLoginSucceeded      = "Đăng nhập thành công"
	MsgLoginFailed         = "Số điện thoại không tồn tại hoặc không chính xác"
	MsgLoggedOut           = "Đăng xuất thành công"
	MsgSessionExpired      = "Phiên đăng nhập đã hết hạn"

	MsgHouseCreated      = "Tạo nhà thành công"
	MsgHouseCreateFailed = "Không thể tạo nhà"
	MsgHouseUpdated      = "Cập nhật nhà thành công"
	MsgHouseUpdateFailed = "Không thể cập nhật nhà"
	MsgHouseDeleted      = "Xóa nhà thành công"
	MsgHouseDeleteFailed = "Không thể xóa nhà"
	MsgHouseNotFound     = "Không tìm thấy nhà"
	MsgHouseLoadFailed   = "Không thể tải danh sách nhà"
	MsgInvalidManager    = "Vui lòng chọn quản lý hợp lệ"

	MsgAnalyticsFailed  = "Không thể tải thống kê"
	MsgInvalidDateRange = "Khoảng thời gian không hợp lệ"
)
