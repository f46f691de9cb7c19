package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleUser    UserRole = "user"    // 일반 사용자
	RoleManager UserRole = "manager" // 작업 관리자
	RoleAdmin   UserRole = "admin"   // 관리자
)

// User 로그인 계정. 문서 저장소가 아닌 관계형 테이블에 둔다.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`              // 사용자 ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // 이메일
	PasswordHash string         `gorm:"not null" json:"-"`                 // 비밀번호 해시
	Name         string         `gorm:"not null" json:"name"`              // 이름
	Phone        string         `json:"phone"`                             // 전화번호
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
