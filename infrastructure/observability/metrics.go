package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"xpslots/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics and implements the domain MetricsRecorder
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	ledgerTransactionsCounter metric.Int64Counter
	roundsCounter             metric.Int64Counter
	roundBetHist              metric.Int64Histogram
	roundPayoutHist           metric.Int64Histogram
	paymentPollsCounter       metric.Int64Counter
	paymentPollAttemptsHist   metric.Int64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(dialCtx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.initializeWithReader(reader); err != nil {
		return err
	}

	otel.SetMeterProvider(mp.meterProvider)
	log.Info("Metrics provider initialized successfully")
	return nil
}

// initializeWithReader builds the meter provider and instruments on top of reader.
// The caller holds mp.mu.
func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("xpslots")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.ledgerTransactionsCounter, err = mp.meter.Int64Counter(
		LedgerTransactionsTotal,
		metric.WithDescription("Total number of ledger transactions applied"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger transactions counter: %w", err)
	}

	mp.roundsCounter, err = mp.meter.Int64Counter(
		RoundsTotal,
		metric.WithDescription("Total number of resolved rounds"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rounds counter: %w", err)
	}

	mp.roundBetHist, err = mp.meter.Int64Histogram(
		RoundBetXP,
		metric.WithDescription("XP wagered per round"),
		metric.WithUnit("{xp}"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	if err != nil {
		return fmt.Errorf("failed to create round bet histogram: %w", err)
	}

	mp.roundPayoutHist, err = mp.meter.Int64Histogram(
		RoundPayoutXP,
		metric.WithDescription("XP paid out per round"),
		metric.WithUnit("{xp}"),
		metric.WithExplicitBucketBoundaries(0, 10, 50, 100, 500, 1000, 10000, 100000),
	)
	if err != nil {
		return fmt.Errorf("failed to create round payout histogram: %w", err)
	}

	mp.paymentPollsCounter, err = mp.meter.Int64Counter(
		PaymentPollsTotal,
		metric.WithDescription("Total number of finished payment polls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create payment polls counter: %w", err)
	}

	mp.paymentPollAttemptsHist, err = mp.meter.Int64Histogram(
		PaymentPollAttempts,
		metric.WithDescription("Status checks needed before a payment reached a terminal status"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 30),
	)
	if err != nil {
		return fmt.Errorf("failed to create payment poll attempts histogram: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordLedgerTransaction records an applied ledger transaction
func (mp *MetricsProvider) RecordLedgerTransaction(kind string) {
	if !mp.isEnabled() {
		return
	}

	mp.ledgerTransactionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelKind, kind)),
	)
}

// RecordRound records a resolved round with its bet and payout
func (mp *MetricsProvider) RecordRound(result string, bet, payout int64) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelResult, result))
	ctx := context.Background()
	mp.roundsCounter.Add(ctx, 1, attrs)
	mp.roundBetHist.Record(ctx, bet, attrs)
	mp.roundPayoutHist.Record(ctx, payout, attrs)
}

// RecordPaymentPoll records a finished payment poll and the attempts it took
func (mp *MetricsProvider) RecordPaymentPoll(status string, attempts int) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelStatus, status))
	ctx := context.Background()
	mp.paymentPollsCounter.Add(ctx, 1, attrs)
	mp.paymentPollAttemptsHist.Record(ctx, int64(attempts), attrs)
}

func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}
