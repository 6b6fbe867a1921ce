package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"aqsit-be/internal/logger"

	"go.uber.org/zap"
)

// Gateway dispatches a rendered message. Failures are logged by the
// caller and never block the primary mutation.
type Gateway interface {
	Send(ctx context.Context, to, subject, html string) error
}

type relayGateway struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewRelayGateway(baseURL, apiKey, from string) Gateway {
	if apiKey == "" {
		logger.L().Warn("mail relay API key is empty")
	}

	return &relayGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *relayGateway) Send(ctx context.Context, to, subject, html string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("to", to),
		zap.String("subject", subject),
	)

	body := map[string]interface{}{
		"from":    g.from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Error("Failed to marshal mail request", zap.Error(err))
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/v1/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("Failed creating mail request", zap.Error(err))
		return err
	}

	req.SetBasicAuth(g.apiKey, "")
	req.Header.Add("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("mail relay request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Error("mail relay returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return fmt.Errorf("mail relay error: %s", string(bodyBytes))
	}

	log.Info("mail dispatched")
	return nil
}
