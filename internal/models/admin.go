package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a back-office account, separate from customer users.
type Admin struct {
	BaseModel
	Username     string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;size:150;not null" json:"email"`
	PasswordHash string `json:"-"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// AdminSession is a server-validated opaque session token. The cookie carries
// only the random token; all state lives in this row, so sessions survive
// restarts and nothing is shared in process memory.
type AdminSession struct {
	BaseModel
	AdminID   uuid.UUID `gorm:"type:uuid;index;not null" json:"admin_id"`
	Admin     *Admin    `json:"admin,omitempty"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
