package models

import "time"

type User struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	InstagramHandle *string   `db:"instagram_handle" json:"instagram_handle,omitempty"`
	Department      *string   `db:"department" json:"department,omitempty"`
	Year            *string   `db:"year" json:"year,omitempty"`
	Bio             *string   `db:"bio" json:"bio,omitempty"`
	Interests       TagList   `db:"interests" json:"interests"`
	LookingFor      TagList   `db:"looking_for" json:"looking_for"`
	ProfilePicURL   *string   `db:"profile_pic_url" json:"profile_pic_url,omitempty"`
	UserType        string    `db:"user_type" json:"user_type"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Confession struct {
	ID            string    `db:"id" json:"id"`
	SenderID      *string   `db:"sender_id" json:"sender_id"`
	RecipientName string    `db:"recipient_name" json:"recipient_name"`
	Message       string    `db:"message" json:"message"`
	VibeType      string    `db:"vibe_type" json:"vibe_type"`
	IsAnonymous   bool      `db:"is_anonymous" json:"is_anonymous"`
	Status        Status    `db:"status" json:"status"`
	LikesCount    int       `db:"likes_count" json:"likes_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Bouquet goes straight to the recipient's inbox; it is never moderated.
type Bouquet struct {
	ID          string    `db:"id" json:"id"`
	SenderID    *string   `db:"sender_id" json:"sender_id"`
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Message     string    `db:"message" json:"message"`
	BouquetType string    `db:"bouquet_type" json:"bouquet_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Club struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Tagline        string    `db:"tagline" json:"tagline"`
	Description    string    `db:"description" json:"description"`
	Category       string    `db:"category" json:"category"`
	CoverImageURL  string    `db:"cover_image_url" json:"cover_image_url"`
	LogoURL        string    `db:"logo_url" json:"logo_url"`
	MemberCount    int       `db:"member_count" json:"member_count"`
	ApprovalStatus Status    `db:"approval_status" json:"approval_status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type ClubMember struct {
	ID        string    `db:"id" json:"id"`
	ClubID    string    `db:"club_id" json:"club_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ClubPost struct {
	ID        string    `db:"id" json:"id"`
	ClubID    string    `db:"club_id" json:"club_id"`
	AuthorID  *string   `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Event struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	OrganizerID   *string   `db:"organizer_id" json:"organizer_id"`
	ClubID        *string   `db:"club_id" json:"club_id,omitempty"`
	ClubName      *string   `db:"club_name" json:"club_name,omitempty"`
	EventType     string    `db:"event_type" json:"event_type"`
	DateTime      time.Time `db:"date_time" json:"date_time"`
	Location      string    `db:"location" json:"location"`
	CoverImageURL string    `db:"cover_image_url" json:"cover_image_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type EventRSVP struct {
	ID        string     `db:"id" json:"id"`
	EventID   string     `db:"event_id" json:"event_id"`
	UserID    string     `db:"user_id" json:"user_id"`
	Status    RSVPStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type Gig struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	PayAmount   string    `db:"pay_amount" json:"pay_amount"`
	GigType     string    `db:"gig_type" json:"gig_type"`
	Location    string    `db:"location" json:"location"`
	PostedBy    *string   `db:"posted_by" json:"posted_by"`
	Status      GigStatus `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type GigApplication struct {
	ID        string    `db:"id" json:"id"`
	GigID     string    `db:"gig_id" json:"gig_id"`
	UserID    *string   `db:"user_id" json:"user_id"`
	ProofURL  string    `db:"proof_url" json:"proof_url"`
	UPIID     string    `db:"upi_id" json:"upi_id"` // Sealed in DB when an encryption key is configured
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Kind      string    `db:"kind" json:"kind"`
	Message   string    `db:"message" json:"message"`
	RefID     *string   `db:"ref_id" json:"ref_id,omitempty"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Stats struct {
	Users  int `db:"users" json:"users"`
	Clubs  int `db:"clubs" json:"clubs"`
	Events int `db:"events" json:"events"`
}

// FeedItem is one row of the unified activity feed.
type FeedItem struct {
	ID        string      `db:"id" json:"id"`
	Type      ContentKind `db:"type" json:"type"`
	Content   string      `db:"content" json:"content"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
