package wellness

import (
	"context"
	"fmt"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/domain"
	"github.com/aescanero/garmin-metrics/pkg/ports"
	"go.uber.org/zap"
)

// Units reported with each metric
const (
	UnitVO2Max          = "ml/kg/min"
	UnitHRV             = "ms"
	UnitSpO2            = "%"
	UnitRespiratoryRate = "brpm"
)

// Config holds wellness service dependencies
type Config struct {
	Provider ports.WellnessProvider
	Metrics  ports.MetricsCollector
	Logger   *zap.Logger

	// Location is the provider's time zone; dates and day halves are computed in it.
	Location *time.Location

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Service serves the four republished metrics
type Service struct {
	provider ports.WellnessProvider
	metrics  ports.MetricsCollector
	logger   *zap.Logger
	loc      *time.Location
	clock    func() time.Time
}

// NewService creates a new wellness service
func NewService(cfg *Config) *Service {
	s := &Service{
		provider: cfg.Provider,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		loc:      cfg.Location,
		clock:    cfg.Clock,
	}

	if s.metrics == nil {
		s.metrics = ports.NoopMetrics{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.clock == nil {
		s.clock = time.Now
	}

	return s
}

// now returns the current time in the provider's location
func (s *Service) now() time.Time {
	return s.clock().In(s.loc)
}

func (s *Service) today() string {
	return s.now().Format(domain.DateLayout)
}

func (s *Service) yesterday() string {
	return s.now().AddDate(0, 0, -1).Format(domain.DateLayout)
}

// VO2Max returns yesterday's VO2Max
func (s *Service) VO2Max(ctx context.Context) (*domain.MetricValue, error) {
	date := s.yesterday()

	record, err := s.provider.VO2Max(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("vo2max for %s: %w", date, err)
	}

	return &domain.MetricValue{
		Metric:       domain.MetricVO2Max,
		CalendarDate: record.CalendarDate,
		Value:        record.Value,
		Unit:         UnitVO2Max,
	}, nil
}

// HRV returns last night's average HRV
func (s *Service) HRV(ctx context.Context) (*domain.MetricValue, error) {
	record, err := s.hrv(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.MetricValue{
		Metric:       domain.MetricHRV,
		CalendarDate: record.CalendarDate,
		Value:        record.LastNightAvg,
		Unit:         UnitHRV,
	}, nil
}

// HRVMeasurements returns last night's individual HRV readings
func (s *Service) HRVMeasurements(ctx context.Context) (*domain.MeasurementList, error) {
	record, err := s.hrv(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.MeasurementList{
		CalendarDate: record.CalendarDate,
		Measurements: s.readingsToMeasurements(record.Readings),
	}, nil
}

func (s *Service) hrv(ctx context.Context) (*domain.HRVRecord, error) {
	date := s.yesterday()

	record, err := s.provider.HRV(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("hrv for %s: %w", date, err)
	}
	return record, nil
}

// SpO2 returns last night's average sleep SpO2
func (s *Service) SpO2(ctx context.Context) (*domain.MetricValue, error) {
	record, err := s.spo2(ctx)
	if err != nil {
		return nil, err
	}

	if record.AverageSleepSpO2 <= 0 {
		return nil, domain.NewOpError("wellness.spo2", domain.KindNoData, record.CalendarDate,
			fmt.Errorf("no sleep SpO2 average"))
	}

	return &domain.MetricValue{
		Metric:       domain.MetricSpO2,
		CalendarDate: record.CalendarDate,
		Value:        record.AverageSleepSpO2,
		Unit:         UnitSpO2,
	}, nil
}

// SpO2Measurements returns yesterday's hourly SpO2 averages
func (s *Service) SpO2Measurements(ctx context.Context) (*domain.MeasurementList, error) {
	record, err := s.spo2(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.MeasurementList{
		CalendarDate: record.CalendarDate,
		Measurements: s.readingsToMeasurements(record.HourlyAverages),
	}, nil
}

func (s *Service) spo2(ctx context.Context) (*domain.SpO2Record, error) {
	date := s.yesterday()

	record, err := s.provider.SpO2(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("spo2 for %s: %w", date, err)
	}
	return record, nil
}

// RespiratoryRate returns the latest respiratory-rate sample of the current half of today
func (s *Service) RespiratoryRate(ctx context.Context) (*domain.MetricValue, error) {
	now := s.now()

	record, err := s.respiration(ctx)
	if err != nil {
		return nil, err
	}

	half := domain.DayHalfOf(now)
	sample, err := SelectRespiratoryRate(record.Samples, now)
	s.metrics.RecordFilterResult(string(half), err == nil)
	if err != nil {
		s.logger.Info("no respiratory-rate sample in the active day half",
			zap.String("half", string(half)),
			zap.Int("samples", len(record.Samples)))
		return nil, domain.NewOpError("wellness.respiratory_rate", domain.KindFilterEmpty, record.CalendarDate, err)
	}

	return &domain.MetricValue{
		Metric:       domain.MetricRespiratoryRate,
		CalendarDate: record.CalendarDate,
		Value:        sample.Value,
		Unit:         UnitRespiratoryRate,
		Datetime:     sample.Timestamp.In(s.loc).Format(domain.DatetimeLayout),
	}, nil
}

// RespiratoryMeasurements returns today's respiratory-rate samples, either the
// whole day or only the active half when halfOnly is set.
func (s *Service) RespiratoryMeasurements(ctx context.Context, halfOnly bool) (*domain.MeasurementList, error) {
	now := s.now()

	record, err := s.respiration(ctx)
	if err != nil {
		return nil, err
	}

	samples := record.Samples
	if halfOnly {
		samples = FilterDayHalf(samples, now)
	}

	measurements := make([]domain.Measurement, 0, len(samples))
	for _, sample := range samples {
		if sample.Value <= 0 {
			continue
		}
		measurements = append(measurements, domain.Measurement{
			Datetime: sample.Timestamp.In(s.loc).Format(domain.DatetimeLayout),
			Value:    sample.Value,
		})
	}

	return &domain.MeasurementList{
		CalendarDate: record.CalendarDate,
		Measurements: measurements,
	}, nil
}

func (s *Service) respiration(ctx context.Context) (*domain.RespirationRecord, error) {
	date := s.today()

	record, err := s.provider.Respiration(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("respiration for %s: %w", date, err)
	}
	return record, nil
}

// readingsToMeasurements formats readings for list responses
func (s *Service) readingsToMeasurements(readings []domain.Reading) []domain.Measurement {
	measurements := make([]domain.Measurement, len(readings))
	for i, r := range readings {
		measurements[i] = domain.Measurement{
			Datetime: r.Timestamp.In(s.loc).Format(domain.DatetimeLayout),
			Value:    r.Value,
		}
	}
	return measurements
}
