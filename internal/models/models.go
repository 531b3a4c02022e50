package models

import "time"

const (
	RoleCore  = "core"
	RoleAdmin = "admin"
)

func ValidRole(role string) bool {
	return role == RoleCore || role == RoleAdmin
}

type User struct {
	ID           uint        `gorm:"primaryKey;autoIncrement"                      json:"id"`
	Email        string      `gorm:"unique;not null"                               json:"email"`
	PasswordHash string      `gorm:"not null"                                      json:"-"`
	Role         string      `gorm:"not null;default:core"                         json:"role"`
	Blueprints   []Blueprint `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// RevokedToken is the session-token blocklist: one row per revoked jti.
// Append-only; pruned only once the token behind the jti would have expired
// on its own.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey" json:"jti"`
	RevokedAt time.Time `gorm:"not null"   json:"revoked_at"`
}

type Blueprint struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint   `gorm:"index;not null"           json:"user_id"`
	Filename   string `gorm:"not null"                 json:"filename"`
	Filepath   string `gorm:"not null"                 json:"filepath"`
	Dimensions string `gorm:"not null"                 json:"dimensions"`
	Color      string `gorm:"not null;default:none"    json:"color"`
}
