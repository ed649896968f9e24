// Package notification delivers signal alerts to external channels
// (webhooks, Telegram) and the log.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"trading-signalsv1/internal/logger"
	"trading-signalsv1/internal/model"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "INFO"
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
)

// Alert represents a notification to be sent.
type Alert struct {
	Level      AlertLevel   `json:"level"`
	Title      string       `json:"title"`
	Message    string       `json:"message"`
	Symbol     string       `json:"symbol,omitempty"`
	Signal     model.Action `json:"signal,omitempty"`
	Confidence float64      `json:"confidence,omitempty"`
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers an alert. Returns error if delivery fails.
	Send(ctx context.Context, alert Alert) error
}

// SignalAlert builds the alert for a directional signal. Signals built on
// fallback data are raised as warnings.
func SignalAlert(sig model.Signal) Alert {
	level := AlertInfo
	if sig.Degraded {
		level = AlertWarning
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s at %.2f (confidence %.1f%%, %s regime)\n",
		sig.Signal, sig.Symbol, sig.CurrentPrice, sig.Confidence, sig.Regime)
	fmt.Fprintf(&b, "Entry %.2f-%.2f, TP1 %.2f, TP2 %.2f, SL %.2f, R/R %.2f",
		sig.EntryRange.Low, sig.EntryRange.High, sig.TakeProfit1, sig.TakeProfit2, sig.StopLoss, sig.RiskReward)
	if sig.Degraded {
		fmt.Fprintf(&b, "\nData source: %s (degraded)", sig.DataSource)
	}

	return Alert{
		Level:      level,
		Title:      fmt.Sprintf("%s %s %s", sig.Symbol, sig.Timeframe, sig.Signal),
		Message:    b.String(),
		Symbol:     sig.Symbol,
		Signal:     sig.Signal,
		Confidence: sig.Confidence,
	}
}

// LogNotifier is a simple notifier that logs alerts (useful for development).
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.Component("notify")}
}

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	n.log.Info(alert.Title,
		"level", alert.Level,
		"message", alert.Message,
		"trace_id", logger.TraceID(ctx),
	)
	return nil
}

// MultiNotifier fans an alert out to every backend and joins their errors.
type MultiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) Send(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Send(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
