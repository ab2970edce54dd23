package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/infraflow-ai/infraflow/pkg/auth"
	"github.com/infraflow-ai/infraflow/pkg/model"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	saved        map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:    tc,
		saved: map[string]string{},
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^an InfraFlow server is running$`, s.anInfraFlowServerIsRunning)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)
	sc.Step(`^I am authenticated as admin "([^"]*)"$`, s.iAmAuthenticatedAsAdmin)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)

	sc.Step(`^I send a (GET|DELETE|POST) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (POST|PATCH|PUT) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)

	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response field "([^"]*)" should exist$`, s.theResponseFieldShouldExist)
	sc.Step(`^the response field "([^"]*)" should have (\d+) items?$`, s.theResponseFieldShouldHaveItems)
	sc.Step(`^I save the response field "([^"]*)" as "([^"]*)"$`, s.iSaveTheResponseField)

	sc.Step(`^the stakeholder "([^"]*)" has an encrypted contact email$`, s.theStakeholderHasAnEncryptedContactEmail)
	sc.Step(`^the audit log has an? "([^"]*)" entry for "([^"]*)"$`, s.theAuditLogHasAnEntryFor)
}

func (s *StepsContext) anInfraFlowServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) authenticate(user auth.User) error {
	token, _, err := s.tc.Issuer.Issue(user)
	if err != nil {
		return err
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iAmAuthenticatedAs(userID string) error {
	return s.authenticate(auth.User{ID: userID, Email: userID + "@example.org", Role: auth.RoleUser})
}

func (s *StepsContext) iAmAuthenticatedAsAdmin(userID string) error {
	return s.authenticate(auth.User{ID: userID, Email: userID + "@example.org", Role: auth.RoleAdmin})
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// expand replaces {name} with values saved by earlier steps.
func (s *StepsContext) expand(text string) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		if v, ok := s.saved[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

func (s *StepsContext) do(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+s.expand(path), body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.do(method, path, nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, path, strings.NewReader(s.expand(body.Content)))
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no request was sent")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

// field walks a dotted path such as "risk_assessment.risk_level" or
// "items.0.name" through the JSON response. "." is the whole body.
func (s *StepsContext) field(path string) (any, error) {
	var v any
	if err := json.Unmarshal(s.responseBody, &v); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	if path == "." {
		return v, nil
	}
	for _, part := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", path, s.responseBody)
			}
			v = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			v = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q of %q", part, path)
		}
	}
	return v, nil
}

func (s *StepsContext) theResponseFieldShouldBe(path, expected string) error {
	v, err := s.field(path)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != s.expand(expected) {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, got)
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldExist(path string) error {
	_, err := s.field(path)
	return err
}

func (s *StepsContext) theResponseFieldShouldHaveItems(path string, n int) error {
	v, err := s.field(path)
	if err != nil {
		return err
	}
	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%s is not a list", path)
	}
	if len(items) != n {
		return fmt.Errorf("expected %d items in %s, got %d", n, path, len(items))
	}
	return nil
}

func (s *StepsContext) iSaveTheResponseField(path, name string) error {
	v, err := s.field(path)
	if err != nil {
		return err
	}
	s.saved[name] = fmt.Sprint(v)
	return nil
}

func (s *StepsContext) theStakeholderHasAnEncryptedContactEmail(name string) error {
	var raw string
	err := s.tc.DB.Table("stakeholders").Select("contact_email").Where("name = ?", name).Scan(&raw).Error
	if err != nil {
		return err
	}
	if raw == "" || strings.Contains(raw, "@") {
		return fmt.Errorf("contact email of %q is stored in plain text: %q", name, raw)
	}

	var decoded model.Stakeholder
	if err := s.tc.DB.Where("name = ?", name).First(&decoded).Error; err != nil {
		return err
	}
	if !strings.Contains(decoded.ContactEmail, "@") {
		return fmt.Errorf("contact email of %q did not decrypt: %q", name, decoded.ContactEmail)
	}
	return nil
}

func (s *StepsContext) theAuditLogHasAnEntryFor(action, saved string) error {
	var count int64
	err := s.tc.DB.Model(&model.AuditLog{}).
		Where("action = ? AND record_id = ?", action, s.expand(saved)).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no %s audit entry for %s", action, s.expand(saved))
	}
	return nil
}

