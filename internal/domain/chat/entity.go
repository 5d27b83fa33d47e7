package chat

import "time"

// Message is immutable once created. The autoincrement id breaks timestamp
// ties, so ordering by (created_at, id) is the full conversation order.
type Message struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FromID    int64     `gorm:"column:from_id;index" json:"from"`
	ToID      int64     `gorm:"column:to_id;index" json:"to"`
	Text      string    `gorm:"column:text" json:"text"`
	CreatedAt time.Time `gorm:"column:created_at" json:"time"`
}

func (Message) TableName() string { return "messages" }

// UnreadCount is one cell of the unread ledger: how many messages from
// CounterpartID the user has not read yet. Rows are sparse — absent means
// zero.
type UnreadCount struct {
	UserID        int64 `gorm:"column:user_id;primaryKey" json:"user_id"`
	CounterpartID int64 `gorm:"column:counterpart_id;primaryKey" json:"counterpart_id"`
	Count         int64 `gorm:"column:count" json:"count"`
}

func (UnreadCount) TableName() string { return "unread_counts" }
