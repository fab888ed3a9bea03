// Package notify delivers contract notifications through the Resend email
// API. The service treats delivery as best-effort; errors here are logged by
// the caller, never shown to the submitting client.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

const (
	resendEndpoint = "https://api.resend.com/emails"
	clientTimeout  = 10 * time.Second
)

var typeLabels = map[domain.ContractType]string{
	domain.TypeTargetInfiltration: "TARGET_INFILTRATION",
	domain.TypeDataExtraction:     "DATA_EXTRACTION",
	domain.TypeAccountTakeover:    "ACCOUNT_TAKEOVER",
	domain.TypeNetworkBreach:      "NETWORK_BREACH",
}

// ResendNotifier implements ports.Notifier against the Resend REST API.
type ResendNotifier struct {
	endpoint string
	apiKey   string
	from     string
	to       string
	client   *http.Client
	log      zerolog.Logger
}

func NewResendNotifier(apiKey, from, to string, log zerolog.Logger) *ResendNotifier {
	return &ResendNotifier{
		endpoint: resendEndpoint,
		apiKey:   apiKey,
		from:     from,
		to:       to,
		client:   &http.Client{Timeout: clientTimeout},
		log:      log,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (n *ResendNotifier) ContractSubmitted(ctx context.Context, contract *domain.Contract) error {
	label := typeLabels[contract.Type]
	if label == "" {
		label = string(contract.Type)
	}

	shortID := contract.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	payload := sendRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: fmt.Sprintf("[CONTRACT_DESK] New Contract: %s", strings.ToUpper(shortID)),
		HTML:    renderBody(contract, label),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: resend returned %d: %s", resp.StatusCode, detail)
	}

	n.log.Debug().Str("contract_id", contract.ID).Msg("notification delivered")
	return nil
}

func renderBody(contract *domain.Contract, label string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: monospace; padding: 24px;">`)
	b.WriteString("<h1>New contract transmission</h1><table>")
	writeRow(&b, "CONTRACT_ID", contract.ID)
	writeRow(&b, "TARGET", contract.Target)
	writeRow(&b, "OPERATION_TYPE", label)
	writeRow(&b, "BOUNTY", contract.Bounty)
	b.WriteString("</table><h2>Brief</h2><p>")
	b.WriteString(html.EscapeString(contract.Details))
	b.WriteString("</p><p>Review this contract in the operator console.</p></div>")
	return b.String()
}

func writeRow(b *strings.Builder, key, value string) {
	b.WriteString("<tr><td>")
	b.WriteString(key)
	b.WriteString(":</td><td>")
	b.WriteString(html.EscapeString(value))
	b.WriteString("</td></tr>")
}
