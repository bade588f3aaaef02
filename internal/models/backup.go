package models

// BackupDocument is the point-in-time export of every persisted collection.
// Version is fixed at "1.0"; readers only require Data.Products to be an
// array, so older or hand-edited files still restore.
type BackupDocument struct {
	Timestamp string     `json:"timestamp"`
	Version   string     `json:"version"`
	Data      BackupData `json:"data"`
}

type BackupData struct {
	Products   []Product  `json:"products"`
	Orders     []Order    `json:"orders"`
	HeroImages []string   `json:"heroImages"`
	Cart       []CartLine `json:"cart"`
	Logo       *string    `json:"logo"`
}

const BackupVersion = "1.0"
