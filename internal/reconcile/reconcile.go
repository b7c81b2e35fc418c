// Package reconcile 客户编辑表单与当前记录的对账：
// 展示名映射回存储列、按角色过滤、外键反向解析、view_date 合并、逐字段文本 diff。
package reconcile

import (
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/lookup"
	"bekind-internal/internal/policy"
)

// Input 一次编辑提交
type Input struct {
	Current   *domain.GuestDetail
	Role      domain.Role
	AccountID int64
	// Values 键为展示名或存储列名，值为表单中的原始文本
	Values map[string]string
	// ViewDate 非空时代替 Values 中的 view_date
	ViewDate *DateTimeInput
}

// Lookups 反向解析用的映射（按请求构建）
type Lookups struct {
	Houses    *lookup.HouseMap
	Marketers *lookup.NameMap
}

// Result 对账结果
type Result struct {
	Patch    domain.GuestPatch
	Changed  []domain.GuestField
	Stripped []domain.GuestField // 无编辑权限被丢弃的字段
	// Ambiguous 命中重名的展示名（首个匹配生效）
	Ambiguous []string
	// ManagerName 房源变更后重新派生的经理名
	ManagerName string
	NoChange    bool
}

// Reconcile 计算最小更新补丁；diff 为空时 NoChange=true 且不返回错误
func Reconcile(in Input, lk Lookups, loc *time.Location) (*Result, error) {
	if in.Current == nil {
		return nil, errors.New("current record is nil")
	}
	if loc == nil {
		loc = time.UTC
	}

	res := &Result{}
	proposed := canonicalize(in.Values)

	if in.ViewDate != nil {
		combined, err := in.ViewDate.Combine(loc)
		if err != nil {
			return nil, &FieldError{Field: domain.FieldViewDate, Value: in.ViewDate.Date + " " + in.ViewDate.Time, Err: ErrInvalidValue}
		}
		proposed[domain.FieldViewDate] = combined
	}

	for _, field := range domain.GuestFields {
		value, ok := proposed[field]
		if !ok {
			continue
		}
		if !policy.IsEditable(in.Role, field) {
			res.Stripped = append(res.Stripped, field)
			continue
		}
		if err := res.apply(in.Current, field, value, lk, loc); err != nil {
			return nil, err
		}
	}

	res.NoChange = len(res.Changed) == 0
	return res, nil
}

// canonicalize 展示名 → 存储列；同一列同时出现两种键时存储列名优先，未知键丢弃
func canonicalize(values map[string]string) map[domain.GuestField]string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[domain.GuestField]string, len(values))
	canonical := make(map[domain.GuestField]bool, len(values))
	for _, k := range keys {
		field, ok := domain.ParseGuestField(k)
		if !ok {
			continue
		}
		isCanonical := string(field) == k
		if _, seen := out[field]; seen && !isCanonical && canonical[field] {
			continue
		}
		out[field] = values[k]
		canonical[field] = canonical[field] || isCanonical
	}
	return out
}

func (r *Result) apply(cur *domain.GuestDetail, field domain.GuestField, value string, lk Lookups, loc *time.Location) error {
	switch field {
	case domain.FieldGuestName:
		if strings.TrimSpace(value) == "" {
			return &FieldError{Field: field, Value: value, Err: ErrRequired}
		}
		if value != cur.GuestName {
			v := value
			r.Patch.GuestName = &v
			r.changed(field)
		}

	case domain.FieldGuestPhoneNumber:
		if strings.TrimSpace(value) == "" {
			return &FieldError{Field: field, Value: value, Err: ErrRequired}
		}
		if value != cur.GuestPhoneNumber {
			v := value
			r.Patch.GuestPhoneNumber = &v
			r.changed(field)
		}

	case domain.FieldStatus:
		status := domain.GuestStatus(value)
		if !status.Valid() {
			return &FieldError{Field: field, Value: value, Err: ErrInvalidValue}
		}
		if status != cur.Status {
			r.Patch.Status = &status
			r.changed(field)
		}

	case domain.FieldViewDate:
		parsed, err := ParseViewDate(value, loc)
		if err != nil {
			return &FieldError{Field: field, Value: value, Err: ErrInvalidValue}
		}
		if FormatViewDate(parsed, loc) != FormatViewDate(cur.ViewDate, loc) {
			r.Patch.ViewDate = &parsed
			r.changed(field)
		}

	case domain.FieldHouseAddress:
		if lk.Houses == nil {
			return &FieldError{Field: field, Value: value, Err: ErrUnresolved}
		}
		id, ok := lk.Houses.ResolveAddress(value)
		if !ok {
			return &FieldError{Field: field, Value: value, Err: ErrUnresolved}
		}
		if lk.Houses.AddressMap().Ambiguous(value) {
			r.Ambiguous = append(r.Ambiguous, value)
		}
		if strconv.FormatInt(id, 10) != strconv.FormatInt(cur.HouseID, 10) {
			r.Patch.HouseID = &id
			r.changed(field)
			if info, ok := lk.Houses.Get(id); ok {
				r.ManagerName = info.ManagerName
			}
		}

	case domain.FieldMarketerName:
		if lk.Marketers == nil {
			return &FieldError{Field: field, Value: value, Err: ErrUnresolved}
		}
		id, ok := lk.Marketers.Resolve(value)
		if !ok {
			return &FieldError{Field: field, Value: value, Err: ErrUnresolved}
		}
		if lk.Marketers.Ambiguous(value) {
			r.Ambiguous = append(r.Ambiguous, value)
		}
		if strconv.FormatInt(id, 10) != strconv.FormatInt(cur.MarketerID, 10) {
			r.Patch.MarketerID = &id
			r.changed(field)
		}

	case domain.FieldAdminNote:
		if value != noteText(cur.AdminNote) {
			v := value
			r.Patch.AdminNote = &v
			r.changed(field)
		}

	case domain.FieldManagerNote:
		if value != noteText(cur.ManagerNote) {
			v := value
			r.Patch.ManagerNote = &v
			r.changed(field)
		}
	}
	return nil
}

func (r *Result) changed(field domain.GuestField) {
	r.Changed = append(r.Changed, field)
}

func noteText(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}
