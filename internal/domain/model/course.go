package model

// Course represents a favorite course on the Canvas account.
type Course struct {
	ID   int64
	Name string
}
