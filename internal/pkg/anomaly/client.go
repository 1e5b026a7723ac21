package anomaly

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a payroll auditor for an Indonesian company. " +
	"Review the computed payroll figures against the employee's history and " +
	"flag anomalies. Respond with valid JSON only: " +
	`{"has_errors":bool,"errors":[{"type":string,"severity":"low"|"medium"|"high","description":string}],"confidence":number,"review":string}`

// Client implements payroll.AnomalyValidator against the OpenAI chat
// completion API. It is advisory: callers bound it with a timeout and treat
// every error as "no opinion".
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

func NewClient(apiKey, model string, temperature float32, logger *slog.Logger) *Client {
	return &Client{
		api:         openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

type validationPayload struct {
	HasErrors bool `json:"has_errors"`
	Errors    []struct {
		Type        string `json:"type"`
		Severity    string `json:"severity"`
		Description string `json:"description"`
	} `json:"errors"`
	Confidence float64 `json:"confidence"`
	Review     string  `json:"review"`
}

func (c *Client) Validate(ctx context.Context, vc payroll.ValidationContext) (payroll.ValidationResult, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(vc)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return payroll.ValidationResult{}, fmt.Errorf("anomaly validation call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return payroll.ValidationResult{}, fmt.Errorf("anomaly validation: empty response")
	}

	content := resp.Choices[0].Message.Content

	var payload validationPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		// Some models wrap JSON in markdown fences despite JSON mode.
		if extracted := extractJSON(content); extracted != "" {
			err = json.Unmarshal([]byte(extracted), &payload)
		}
		if err != nil {
			c.logger.Warn("unparseable anomaly validation response",
				slog.String("employee_id", vc.EmployeeID))
			return payroll.ValidationResult{}, fmt.Errorf("parse anomaly validation response: %w", err)
		}
	}

	return toResult(payload), nil
}

func toResult(payload validationPayload) payroll.ValidationResult {
	confidence := payload.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	result := payroll.ValidationResult{
		HasErrors:  payload.HasErrors,
		Confidence: confidence,
		ReviewText: payload.Review,
	}
	for _, e := range payload.Errors {
		severity := payroll.AnomalySeverity(e.Severity)
		switch severity {
		case payroll.SeverityLow, payroll.SeverityMedium, payroll.SeverityHigh:
		default:
			severity = payroll.SeverityLow
		}
		result.Errors = append(result.Errors, payroll.AnomalyDetail{
			Type:        e.Type,
			Description: e.Description,
			Severity:    severity,
		})
	}
	result.HasErrors = result.HasErrors || len(result.Errors) > 0
	return result
}

func buildPrompt(vc payroll.ValidationContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Employee %s (%s), period %d-%02d.\n", vc.EmployeeName, vc.EmployeeID, vc.PeriodYear, vc.PeriodMonth)
	fmt.Fprintf(&b, "Base salary: %s, prorated: %s.\n", vc.BaseSalary, vc.ProratedSalary)
	fmt.Fprintf(&b, "Earnings: %s, deductions: %s, net pay: %s.\n", vc.TotalEarnings, vc.TotalDeductions, vc.NetPay)
	fmt.Fprintf(&b, "Attendance: %d of %d working days, overtime %s hours.\n", vc.PresentDays, vc.WorkingDays, vc.OvertimeHours)
	if len(vc.History) > 0 {
		b.WriteString("Previous months (earnings / net):\n")
		for _, h := range vc.History {
			fmt.Fprintf(&b, "- %d-%02d: %s / %s\n", h.Year, h.Month, h.TotalEarnings, h.NetPay)
		}
	}
	b.WriteString("Flag unusual deviations from history, impossible attendance, or inconsistent totals.")
	return b.String()
}

// extractJSON pulls the first JSON object out of a markdown code fence.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return content[start : end+1]
}
