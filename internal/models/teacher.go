package models

// Teacher represents an instructor responsible for courses.
type Teacher struct {
	ID        int64   `db:"id" json:"id"`
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Email     string  `db:"email" json:"email"`
	Bio       *string `db:"bio" json:"bio"`
}

// TeacherOption is the id/name pair used to populate filters.
type TeacherOption struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
