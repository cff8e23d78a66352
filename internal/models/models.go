package models

import "time"

// Identity is the authenticated user as reported by the auth provider
type Identity struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Session is the token bundle returned by a password sign-in
type Session struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	User         *Identity `json:"user"`
}

// Profile is the application-side record of a user
type Profile struct {
	UserID    string    `json:"user_id"`
	Username  *string   `json:"username"`
	FullName  *string   `json:"full_name"`
	IsTutor   bool      `json:"is_tutor"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileUpdate holds the profile fields a user may change on their own profile
type ProfileUpdate struct {
	Username *string
	FullName *string
}

// Post represents a feed post
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment represents a comment on a post
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Like represents one like of a post by a user
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Author is the joined display data of a post or comment author
type Author struct {
	FullName *string `json:"full_name"`
}

// CommentView is a comment with its author
type CommentView struct {
	Comment
	Author Author `json:"author"`
}

// LikeRef identifies who liked a post
type LikeRef struct {
	UserID string `json:"user_id"`
}

// PostRow is a post joined with its author, as read from storage
type PostRow struct {
	Post
	Author Author `json:"author"`
}

// PostView is a post as shown in the feed
type PostView struct {
	PostRow
	Comments    []CommentView `json:"comments"`
	Likes       []LikeRef     `json:"likes"`
	LikeCount   int           `json:"like_count"`
	LikedByUser *bool         `json:"likedByUser,omitempty"`
}

// TutorSlot represents a bookable tutoring session
type TutorSlot struct {
	ID              string    `json:"id"`
	TutorID         string    `json:"tutor_id"`
	Topic           string    `json:"topic"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Duration        int       `json:"duration"`
	MaxStudents     int       `json:"max_students"`
	CurrentStudents int       `json:"current_students"`
	CreatedAt       time.Time `json:"created_at"`
}

// SlotView is a slot with its tutor
type SlotView struct {
	TutorSlot
	Tutor Author `json:"tutor"`
}

// TutorBooking represents a student's reservation of a slot
type TutorBooking struct {
	ID        string    `json:"id"`
	SlotID    string    `json:"slot_id"`
	StudentID string    `json:"student_id"`
	BookedAt  time.Time `json:"booked_at"`
}

// BookingSlot is the slot summary attached to a booking listing
type BookingSlot struct {
	Topic string `json:"topic"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// BookingView is a booking with its slot summary
type BookingView struct {
	TutorBooking
	Slot BookingSlot `json:"slot"`
}
