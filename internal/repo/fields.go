package repo

import (
	"fmt"
	"strconv"
	"strings"
)

// clientColumns is the fixed whitelist of columns writable from request
// payloads, in table order. It is the sole input-validation mechanism for
// client records: anything not listed here never reaches a SQL statement.
var clientColumns = []string{
	"name", "phone", "district", "job_role", "country",
	"passport_no", "passport_submit_date", "passport_submitted_by",
	"passport_fee", "passport_payment_mode", "passport_payment_status",
	"passport_payment_date", "passport_payment_reference",
	"interview_date", "interview_time", "interview_location",
	"interview_status", "interview_reschedule_date", "interview_remarks",
	"offer_letter_status", "offer_letter_date", "offer_letter_reference",
	"employer_company", "offered_salary", "contract_duration",
	"advance_payment", "advance_payment_mode", "advance_payment_status",
	"advance_payment_date", "advance_payment_time", "advance_payment_reference",
	"medical_status", "medical_date", "medical_report_no",
	"mofa_status", "mofa_number", "mofa_date",
	"vfs_status", "vfs_appointment_date", "vfs_reference_no",
	"takamual_status", "takamual_date", "takamual_certificate_no",
	"visa_status", "visa_number", "visa_expiry_date",
	"agreement_process", "agreement_date", "agreement_number",
	"client_signed", "witness_name",
	"full_payment", "full_payment_mode", "full_payment_date",
	"flying_date", "flight_details", "ticket_status",
	"remarks",
}

// amountColumns are stored as decimals and coerce to float64.
var amountColumns = map[string]bool{
	"passport_fee":    true,
	"advance_payment": true,
	"full_payment":    true,
}

var clientSelectList = "id, " + strings.Join(clientColumns, ", ") + ", created_at, updated_at"

// filterClientFields walks the whitelist in order and picks the payload keys
// it contains, coercing each value. Unknown keys are dropped silently. For
// inserts JSON nulls are skipped so the column default applies; for updates
// a null present in the payload overwrites with the zero value, matching the
// partial-update contract.
func filterClientFields(payload map[string]any, forUpdate bool) (cols []string, vals []any, err error) {
	for _, col := range clientColumns {
		v, present := payload[col]
		if !present {
			continue
		}
		if v == nil && !forUpdate {
			continue
		}
		if amountColumns[col] {
			amount, err := coerceAmount(v)
			if err != nil {
				return nil, nil, fmt.Errorf("field %s: %w", col, err)
			}
			cols = append(cols, col)
			vals = append(vals, amount)
			continue
		}
		cols = append(cols, col)
		vals = append(vals, coerceText(v))
	}
	return cols, vals, nil
}

// coerceText renders any JSON value as a string column value. Falsy inputs
// (null, false, 0, "") become the empty string.
func coerceText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// coerceAmount renders any JSON value as a decimal column value. Falsy
// inputs become 0; a non-empty string must parse as a number.
func coerceAmount(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		amount, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", t)
		}
		return amount, nil
	default:
		return 0, fmt.Errorf("invalid amount %v", v)
	}
}
