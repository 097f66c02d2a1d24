package repo

import (
	"errors"
	"time"
)

var (
	// ErrNotFound signals a lookup for a row that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNoData signals a create payload with no whitelisted fields.
	ErrNoData = errors.New("no data provided")
)

// AdminUser represents the admin_users table row. The table holds exactly
// one account for the lifetime of the deployment.
type AdminUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client represents one person moving through the placement pipeline. Stage
// statuses are free-text by contract; only name and phone are required.
type Client struct {
	ID int64 `json:"id"`

	// Identity
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	District string `json:"district"`
	JobRole  string `json:"job_role"`
	Country  string `json:"country"`

	// Passport
	PassportNo               string  `json:"passport_no"`
	PassportSubmitDate       string  `json:"passport_submit_date"`
	PassportSubmittedBy      string  `json:"passport_submitted_by"`
	PassportFee              float64 `json:"passport_fee"`
	PassportPaymentMode      string  `json:"passport_payment_mode"`
	PassportPaymentStatus    string  `json:"passport_payment_status"`
	PassportPaymentDate      string  `json:"passport_payment_date"`
	PassportPaymentReference string  `json:"passport_payment_reference"`

	// Interview
	InterviewDate           string `json:"interview_date"`
	InterviewTime           string `json:"interview_time"`
	InterviewLocation       string `json:"interview_location"`
	InterviewStatus         string `json:"interview_status"`
	InterviewRescheduleDate string `json:"interview_reschedule_date"`
	InterviewRemarks        string `json:"interview_remarks"`

	// Offer letter
	OfferLetterStatus    string `json:"offer_letter_status"`
	OfferLetterDate      string `json:"offer_letter_date"`
	OfferLetterReference string `json:"offer_letter_reference"`
	EmployerCompany      string `json:"employer_company"`
	OfferedSalary        string `json:"offered_salary"`
	ContractDuration     string `json:"contract_duration"`

	// Advance payment
	AdvancePayment          float64 `json:"advance_payment"`
	AdvancePaymentMode      string  `json:"advance_payment_mode"`
	AdvancePaymentStatus    string  `json:"advance_payment_status"`
	AdvancePaymentDate      string  `json:"advance_payment_date"`
	AdvancePaymentTime      string  `json:"advance_payment_time"`
	AdvancePaymentReference string  `json:"advance_payment_reference"`

	// Medical
	MedicalStatus   string `json:"medical_status"`
	MedicalDate     string `json:"medical_date"`
	MedicalReportNo string `json:"medical_report_no"`

	// Government clearances
	MofaStatus            string `json:"mofa_status"`
	MofaNumber            string `json:"mofa_number"`
	MofaDate              string `json:"mofa_date"`
	VfsStatus             string `json:"vfs_status"`
	VfsAppointmentDate    string `json:"vfs_appointment_date"`
	VfsReferenceNo        string `json:"vfs_reference_no"`
	TakamualStatus        string `json:"takamual_status"`
	TakamualDate          string `json:"takamual_date"`
	TakamualCertificateNo string `json:"takamual_certificate_no"`

	// Visa
	VisaStatus     string `json:"visa_status"`
	VisaNumber     string `json:"visa_number"`
	VisaExpiryDate string `json:"visa_expiry_date"`

	// Agreement
	AgreementProcess string `json:"agreement_process"`
	AgreementDate    string `json:"agreement_date"`
	AgreementNumber  string `json:"agreement_number"`
	ClientSigned     string `json:"client_signed"`
	WitnessName      string `json:"witness_name"`

	// Final settlement & travel
	FullPayment     float64 `json:"full_payment"`
	FullPaymentMode string  `json:"full_payment_mode"`
	FullPaymentDate string  `json:"full_payment_date"`
	FlyingDate      string  `json:"flying_date"`
	FlightDetails   string  `json:"flight_details"`
	TicketStatus    string  `json:"ticket_status"`

	Remarks string `json:"remarks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// scanDest returns pointers to every column of the clients table in the
// order of clientSelectList. Both backends scan through it.
func (c *Client) scanDest() []any {
	return []any{
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.District,
		&c.JobRole,
		&c.Country,
		&c.PassportNo,
		&c.PassportSubmitDate,
		&c.PassportSubmittedBy,
		&c.PassportFee,
		&c.PassportPaymentMode,
		&c.PassportPaymentStatus,
		&c.PassportPaymentDate,
		&c.PassportPaymentReference,
		&c.InterviewDate,
		&c.InterviewTime,
		&c.InterviewLocation,
		&c.InterviewStatus,
		&c.InterviewRescheduleDate,
		&c.InterviewRemarks,
		&c.OfferLetterStatus,
		&c.OfferLetterDate,
		&c.OfferLetterReference,
		&c.EmployerCompany,
		&c.OfferedSalary,
		&c.ContractDuration,
		&c.AdvancePayment,
		&c.AdvancePaymentMode,
		&c.AdvancePaymentStatus,
		&c.AdvancePaymentDate,
		&c.AdvancePaymentTime,
		&c.AdvancePaymentReference,
		&c.MedicalStatus,
		&c.MedicalDate,
		&c.MedicalReportNo,
		&c.MofaStatus,
		&c.MofaNumber,
		&c.MofaDate,
		&c.VfsStatus,
		&c.VfsAppointmentDate,
		&c.VfsReferenceNo,
		&c.TakamualStatus,
		&c.TakamualDate,
		&c.TakamualCertificateNo,
		&c.VisaStatus,
		&c.VisaNumber,
		&c.VisaExpiryDate,
		&c.AgreementProcess,
		&c.AgreementDate,
		&c.AgreementNumber,
		&c.ClientSigned,
		&c.WitnessName,
		&c.FullPayment,
		&c.FullPaymentMode,
		&c.FullPaymentDate,
		&c.FlyingDate,
		&c.FlightDetails,
		&c.TicketStatus,
		&c.Remarks,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}

// rowScanner is satisfied by pgx.Row, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*Client, error) {
	var c Client
	if err := row.Scan(c.scanDest()...); err != nil {
		return nil, err
	}
	return &c, nil
}

// Stats holds the dashboard aggregates. Each field comes from its own query;
// no cross-field snapshot is guaranteed.
type Stats struct {
	TotalClients     int64   `json:"total_clients"`
	InterviewPending int64   `json:"interview_pending"`
	InterviewPassed  int64   `json:"interview_passed"`
	VisaApproved     int64   `json:"visa_approved"`
	VisaProcessing   int64   `json:"visa_processing"`
	TotalAdvance     float64 `json:"total_advance"`
	TotalFullPayment float64 `json:"total_full_payment"`
	TotalPassportFee float64 `json:"total_passport_fee"`
	TotalRevenue     float64 `json:"total_revenue"`
	ReadyToFly       int64   `json:"ready_to_fly"`
}

// computeRevenue fills total_revenue from the three money totals.
func (s *Stats) computeRevenue() {
	s.TotalRevenue = s.TotalAdvance + s.TotalFullPayment + s.TotalPassportFee
}
