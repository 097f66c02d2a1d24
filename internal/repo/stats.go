package repo

import (
	"context"
	"fmt"
)

// The stats queries are dialect-neutral: plain COUNT/SUM with literal
// predicates, shared by both backends. Each counter is its own scan of the
// clients table; a concurrent write between two queries may yield a dashboard
// that is not point-in-time consistent, which is acceptable here.
const (
	statsTotalClients = `SELECT COUNT(*) FROM clients`

	statsInterviewPending = `SELECT COUNT(*) FROM clients WHERE interview_status IN ('pending', 'scheduled')`

	statsInterviewPassed = `SELECT COUNT(*) FROM clients WHERE interview_status IN ('selected', 'passed')`

	statsVisaApproved = `SELECT COUNT(*) FROM clients WHERE visa_status = 'approved'`

	statsVisaProcessing = `SELECT COUNT(*) FROM clients WHERE visa_status NOT IN ('approved', 'rejected', 'not_applied', '')`

	statsTotalAdvance = `SELECT COALESCE(SUM(advance_payment), 0) FROM clients`

	statsTotalFullPayment = `SELECT COALESCE(SUM(full_payment), 0) FROM clients`

	// Passport fee counts as agency revenue only when the agency submitted
	// the passport on the client's behalf.
	statsTotalPassportFee = `SELECT COALESCE(SUM(passport_fee), 0) FROM clients WHERE passport_submitted_by = 'agency'`

	statsReadyToFly = `SELECT COUNT(*) FROM clients WHERE visa_status = 'approved' AND flying_date != ''`
)

// Stats computes the dashboard aggregates as of the moment of the call.
func (r *PostgresRepository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats

	counts := []struct {
		query string
		dest  *int64
	}{
		{statsTotalClients, &s.TotalClients},
		{statsInterviewPending, &s.InterviewPending},
		{statsInterviewPassed, &s.InterviewPassed},
		{statsVisaApproved, &s.VisaApproved},
		{statsVisaProcessing, &s.VisaProcessing},
		{statsReadyToFly, &s.ReadyToFly},
	}
	for _, c := range counts {
		if err := r.pool.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats count: %w", err)
		}
	}

	sums := []struct {
		query string
		dest  *float64
	}{
		{statsTotalAdvance, &s.TotalAdvance},
		{statsTotalFullPayment, &s.TotalFullPayment},
		{statsTotalPassportFee, &s.TotalPassportFee},
	}
	for _, c := range sums {
		if err := r.pool.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats sum: %w", err)
		}
	}

	s.computeRevenue()
	return &s, nil
}
