package model

// Availability is the bookable state of a calendar date
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// Capacity holds the total and remaining parking spaces for a date
type Capacity struct {
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

// CalendarDate represents pricing, availability and capacity for one calendar day.
// Date is always in YYYY-MM-DD form once decoded.
type CalendarDate struct {
	Date           string       `json:"date"`
	Price          float64      `json:"price"`
	Availability   Availability `json:"availability"`
	StatusColor    string       `json:"statusColor,omitempty"`
	ManualOverride bool         `json:"manualOverride"`
	Capacity       Capacity     `json:"capacity"`
	BookingsCount  int          `json:"bookingsCount"`
}

// IsOpen reports whether the date is marked bookable by the backend.
// The status colour wins when present, otherwise the availability flag decides.
func (d CalendarDate) IsOpen() bool {
	if d.StatusColor != "" {
		return d.StatusColor == "green"
	}
	return d.Availability == Available
}

// BookingSource is the channel a booking came through
type BookingSource string

const (
	SourceLooking4 BookingSource = "Looking4"
	SourceSkyParks BookingSource = "SkyParks"
	SourceDirect   BookingSource = "Direct"
)

// BookingSources lists every known source channel
var BookingSources = []BookingSource{SourceLooking4, SourceSkyParks, SourceDirect}

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	StatusNew       BookingStatus = "New"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCompleted BookingStatus = "Completed"
)

// BookingStatuses lists every known booking status
var BookingStatuses = []BookingStatus{StatusNew, StatusConfirmed, StatusCompleted}

// Booking represents a customer's parking reservation
type Booking struct {
	ID             string        `json:"id"`
	CustomerName   string        `json:"customerName"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	CarReg         string        `json:"carReg"`
	ArrivalDate    string        `json:"arrivalDate"`
	ReturnDate     string        `json:"returnDate"`
	Price          float64       `json:"price"`
	SpacesReserved int           `json:"spacesReserved"`
	Source         BookingSource `json:"source"`
	Status         BookingStatus `json:"status"`
	CreatedAt      string        `json:"createdAt,omitempty"`
}

// AlertSeverity grades how urgent an alert is
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert represents a backend-generated operational alert
type Alert struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Message  string        `json:"message"`
	Date     string        `json:"date"`
	Read     bool          `json:"read"`
	Severity AlertSeverity `json:"severity"`
}

// LogEntry represents a change-history record
type LogEntry struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Message   string `json:"message,omitempty"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
	Details   string `json:"details"`
}

// Role is a staff member's access level
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User represents an authenticated account
type User struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

// Staff represents a staff account as listed on the staff page
type Staff struct {
	User
	Status    string `json:"status,omitempty"`
	LastLogin string `json:"lastLogin,omitempty"`
}

// Profile is the signed-in user's profile
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// BusinessSettings holds the parking business' contact and billing details
type BusinessSettings struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
	TaxID    string `json:"taxId,omitempty"`
}

// NotificationSettings holds which notifications the account receives
type NotificationSettings struct {
	EmailAlerts       bool `json:"emailAlerts"`
	PushNotifications bool `json:"pushNotifications"`
	LowStockAlerts    bool `json:"lowStockAlerts"`
	WeeklyReports     bool `json:"weeklyReports"`
}
