package models

// Status is a named review state an owner can put a suggestion in.
type Status struct {
	ID                string `bson:"_id"`
	StatusName        string `bson:"status_name"`
	StatusDescription string `bson:"status_description,omitempty"`
}

// Category groups suggestions by topic.
type Category struct {
	ID                  string `bson:"id,omitempty"`
	CategoryName        string `bson:"category_name,omitempty"`
	CategoryDescription string `bson:"category_description,omitempty"`
}
