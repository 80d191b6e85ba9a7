package model

import "time"

// AnswerRecord is a persisted answer for one question within one container.
// Question name is unique per container (case-insensitive). Records are
// never deleted; a question that disappears from the visible list is
// soft-deactivated and can be reactivated by a later run.
type AnswerRecord struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ContainerID string    `json:"containerId" bson:"container_id"`
	Name        string    `json:"name" bson:"name"`
	Answer      string    `json:"answer" bson:"answer"`
	Details     string    `json:"details" bson:"details"`
	Number      *int      `json:"number,omitempty" bson:"number,omitempty"`
	Title       string    `json:"title" bson:"title"`
	TitleLocal  string    `json:"titleLocal" bson:"title_local"`
	Provision   string    `json:"provision,omitempty" bson:"provision,omitempty"`
	ParentID    string    `json:"parentId,omitempty" bson:"parent_id,omitempty"`
	Version     int       `json:"version" bson:"version"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// DetailEntry is one label/value pair of a record's merged details:
// the question's own comment plus the answers of its hidden dependents.
type DetailEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
