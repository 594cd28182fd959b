package domain

import "time"

// Student is a minimal student record. The full academics surface lives in
// the admin modules; this aggregate exists so plan limits have something
// real to count.
type Student struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID    string    `gorm:"column:tenant_id;index;size:36" json:"tenant_id"`
	BranchID    int64     `gorm:"column:branch_id;index;default:0" json:"branch_id,omitempty"`
	Name        string    `gorm:"column:name;size:200" json:"name"`
	AdmissionNo string    `gorm:"column:admission_no;size:32" json:"admission_no"`
	ClassLabel  string    `gorm:"column:class_label;size:32" json:"class_label,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

// CreateStudentRequest creates one student
type CreateStudentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	AdmissionNo string `json:"admission_no" binding:"required,max=32"`
	BranchID    int64  `json:"branch_id"`
	ClassLabel  string `json:"class_label" binding:"omitempty,max=32"`
}
