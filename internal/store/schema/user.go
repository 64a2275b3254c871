package schema

import "time"

// User represents the users table - authors of events, joined into feed pages for display
type User struct {
	// ID is the user identifier (JWT subject)
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Username is the unique handle of the user
	Username string `gorm:"column:username;not null;type:text"`
	// DisplayName is the human readable name
	DisplayName string `gorm:"column:display_name;not null;default:'';type:text"`
	// PublicFeed allows other users to read this user's personal feed
	PublicFeed bool `gorm:"column:public_feed;not null;default:false"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
