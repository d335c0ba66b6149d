package amqp

import (
	"encoding/json"
	"time"
)

// RecordSyncMessage asks the worker to push one finance record to the
// sheet. It carries only the phone and version; the worker reads the full
// record from the database.
type RecordSyncMessage struct {
	Phone     string    `json:"phone"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(phone string, version int64) *RecordSyncMessage {
	return &RecordSyncMessage{
		Phone:     phone,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
