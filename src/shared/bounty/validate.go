package bounty

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/daoforge/bounty-board/src/shared/types"
	"github.com/shopspring/decimal"
)

// ValidationError lists every field that failed validation. Handlers map it
// to a 400 response; it never escapes the API boundary as a panic.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

type fieldSpec struct {
	required bool // must be present and non-empty on create
	mutable  bool // may appear in an update patch
}

// schema is closed: a key absent from this map rejects the whole request.
// Fields with neither flag are round-tripped by the frontend's preview flow;
// they are accepted on create but their values are server-owned.
var schema = map[string]fieldSpec{
	"title":            {required: true, mutable: true},
	"description":      {required: true, mutable: true},
	"criteria":         {required: true, mutable: true},
	"reward":           {required: true, mutable: true},
	"dueAt":            {required: true, mutable: true},
	"createdBy":        {required: true},
	"customerId":       {required: true},
	"status":           {mutable: true},
	"submissionNotes":  {mutable: true},
	"submissionUrl":    {mutable: true},
	"statusHistory":    {},
	"activityHistory":  {},
	"editKey":          {},
	"discordMessageId": {},
	"createdAt":        {},
}

var rewardKeys = map[string]bool{
	"amount":             true,
	"amountWithoutScale": true,
	"scale":              true,
	"currency":           true,
}

var createdByKeys = map[string]bool{
	"discordHandle": true,
	"discordId":     true,
}

// ParseReward converts a decimal string into the integer+scale encoding.
// The digits of the string become AmountWithoutScale and the fraction length
// becomes Scale, so no binary rounding reaches the stored pair.
func ParseReward(amount, currency string) (types.Reward, bool) {
	if !isPlainDecimal(amount) {
		return types.Reward{}, false
	}
	d, err := decimal.NewFromString(amount)
	if err != nil || d.IsNegative() {
		return types.Reward{}, false
	}
	// the digits must fit int64, or the stored pair would wrap around
	if !d.Coefficient().IsInt64() {
		return types.Reward{}, false
	}
	f, _ := d.Float64()
	return types.Reward{
		Amount:             f,
		AmountWithoutScale: d.CoefficientInt64(),
		Scale:              -d.Exponent(),
		Currency:           strings.ToUpper(currency),
	}, true
}

// isPlainDecimal admits "123" and "123.45" but not signs, exponents or
// bare dots, matching the frontend's form validation.
func isPlainDecimal(s string) bool {
	intPart, frac, dot := strings.Cut(s, ".")
	if !allDigits(intPart) || intPart == "" {
		return false
	}
	if dot && (frac == "" || !allDigits(frac)) {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ValidateCreate checks a raw create payload against the schema and returns
// the normalized bounty. The caller decodes the body with json.Number so
// monetary values arrive as their original decimal strings.
func ValidateCreate(raw map[string]any, now time.Time) (*types.Bounty, error) {
	bad := map[string]bool{}

	for k := range raw {
		if _, ok := schema[k]; !ok {
			bad[k] = true
		}
	}
	for name, spec := range schema {
		if !spec.required {
			continue
		}
		if v, ok := raw[name]; !ok || isEmpty(v) {
			bad[name] = true
		}
	}

	b := &types.Bounty{Status: StatusDraft}

	if v, ok := raw["title"]; ok {
		if s, ok := v.(string); ok && s != "" {
			b.Title = s
		} else {
			bad["title"] = true
		}
	}
	if v, ok := raw["description"]; ok {
		if s, ok := v.(string); ok && s != "" {
			b.Description = s
		} else {
			bad["description"] = true
		}
	}
	if v, ok := raw["criteria"]; ok {
		if s, ok := v.(string); ok && s != "" {
			b.Criteria = s
		} else {
			bad["criteria"] = true
		}
	}
	if v, ok := raw["customerId"]; ok {
		if s, ok := v.(string); ok && s != "" {
			b.CustomerID = s
		} else {
			bad["customerId"] = true
		}
	}

	if v, ok := raw["reward"]; ok {
		if r, ok := parseRewardValue(v, bad); ok {
			b.Reward = r
		}
	}

	if v, ok := raw["createdBy"]; ok {
		if id, ok := parseIdentity(v, "createdBy", createdByKeys, bad); ok {
			b.CreatedBy = id
		}
	}

	if v, ok := raw["dueAt"]; ok {
		if t, ok := parseTime(v); !ok {
			bad["dueAt"] = true
		} else if t.Before(now) {
			bad["dueAt"] = true
		} else {
			b.DueAt = t
		}
	}

	// The preview flow round-trips a draft status; anything else at create
	// time is a client bug.
	if v, ok := raw["status"]; ok {
		if s, ok := v.(string); !ok || s != StatusDraft {
			bad["status"] = true
		}
	}

	if v, ok := raw["editKey"]; ok {
		if s, ok := v.(string); ok && s != "" {
			b.EditKey = s
		} else {
			bad["editKey"] = true
		}
	}

	if len(bad) > 0 {
		return nil, newValidationError(bad)
	}

	b.StatusHistory = []types.StatusEvent{{Status: StatusDraft, ModifiedAt: now}}
	return b, nil
}

// Patch holds the fields an update supplied. Nil means "not provided".
type Patch struct {
	Title           *string
	Description     *string
	Criteria        *string
	Reward          *types.Reward
	DueAt           *time.Time
	Status          *string
	SubmissionNotes *string
	SubmissionURL   *string
}

// ValidateUpdate checks a raw patch: unknown keys and immutable fields
// reject the request, present mutable fields must parse. There is no
// completeness requirement.
func ValidateUpdate(raw map[string]any) (*Patch, error) {
	bad := map[string]bool{}
	for k := range raw {
		spec, known := schema[k]
		if !known || !spec.mutable {
			bad[k] = true
		}
	}

	p := &Patch{}

	setString := func(name string, dst **string) {
		v, ok := raw[name]
		if !ok {
			return
		}
		if s, ok := v.(string); ok && s != "" {
			*dst = &s
		} else {
			bad[name] = true
		}
	}
	setString("title", &p.Title)
	setString("description", &p.Description)
	setString("criteria", &p.Criteria)

	// Submission fields may legitimately be set to empty text.
	if v, ok := raw["submissionNotes"]; ok {
		if s, ok := v.(string); ok {
			p.SubmissionNotes = &s
		} else {
			bad["submissionNotes"] = true
		}
	}
	if v, ok := raw["submissionUrl"]; ok {
		if s, ok := v.(string); ok && validSubmissionURL(s) {
			p.SubmissionURL = &s
		} else {
			bad["submissionUrl"] = true
		}
	}

	if v, ok := raw["reward"]; ok {
		if r, ok := parseRewardValue(v, bad); ok {
			p.Reward = &r
		}
	}

	if v, ok := raw["dueAt"]; ok {
		if t, ok := parseTime(v); ok {
			p.DueAt = &t
		} else {
			bad["dueAt"] = true
		}
	}

	if v, ok := raw["status"]; ok {
		if s, ok := v.(string); ok && ValidStatus(s) {
			p.Status = &s
		} else {
			bad["status"] = true
		}
	}

	if len(bad) > 0 {
		return nil, newValidationError(bad)
	}
	return p, nil
}

func parseRewardValue(v any, bad map[string]bool) (types.Reward, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		bad["reward"] = true
		return types.Reward{}, false
	}
	for k := range m {
		if !rewardKeys[k] {
			bad["reward."+k] = true
		}
	}

	amount, ok := decimalString(m["amount"])
	if !ok {
		bad["reward.amount"] = true
		return types.Reward{}, false
	}
	currency, _ := m["currency"].(string)
	if currency == "" {
		bad["reward.currency"] = true
		return types.Reward{}, false
	}

	r, ok := ParseReward(amount, currency)
	if !ok {
		bad["reward.amount"] = true
		return types.Reward{}, false
	}
	return r, true
}

func parseIdentity(v any, name string, allowed map[string]bool, bad map[string]bool) (types.DiscordIdentity, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		bad[name] = true
		return types.DiscordIdentity{}, false
	}
	for k := range m {
		if !allowed[k] {
			bad[name+"."+k] = true
		}
	}
	handle, _ := m["discordHandle"].(string)
	id, _ := m["discordId"].(string)
	if handle == "" || id == "" {
		bad[name] = true
		return types.DiscordIdentity{}, false
	}
	return types.DiscordIdentity{DiscordHandle: handle, DiscordID: id}, true
}

// decimalString extracts the caller's original decimal text from a JSON
// value regardless of how the body was decoded.
func decimalString(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case string:
		return n, true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	default:
		return "", false
	}
}

// validSubmissionURL admits empty (clearing the link) or an absolute
// http(s) URL. The field bypasses the HTML sanitizer, which would escape
// query-string ampersands.
func validSubmissionURL(s string) bool {
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func parseTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}

func newValidationError(bad map[string]bool) *ValidationError {
	fields := make([]string, 0, len(bad))
	for f := range bad {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}
