package model

import "time"

// Container is the parent record whose response/schema pair is reconciled
// in one run (e.g., one task instance). The response and schema are stored
// as opaque JSON text; their shape is interpreted by the survey package.
type Container struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	DisplayName  string     `json:"displayName" bson:"display_name"`
	ParentRef    string     `json:"parentRef,omitempty" bson:"parent_ref,omitempty"`
	ResponseText string     `json:"responseText" bson:"response_text"`
	SchemaText   string     `json:"schemaText" bson:"schema_text"`
	CompletedAt  *time.Time `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updated_at"`
}
