package summary

import (
	"fmt"

	"ichor/summary/defs"
	"ichor/summary/pkg/carelink"
	"ichor/summary/pkg/interp"
	"ichor/summary/pkg/report"
	"ichor/summary/pkg/segment"
	"ichor/summary/pkg/stats"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Run loads both exports named in config, computes the summary table and saves it.
func Run(config defs.Config) error {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run", uuid.NewString()))

	format, err := report.ParseFormat(config.Output.Format)
	if err != nil {
		return err
	}

	insulin, err := carelink.LoadInsulin(config.Input.Insulin, config.TimeLayouts)
	if err != nil {
		return err
	}
	cgm, err := carelink.LoadCGM(config.Input.CGM, config.TimeLayouts)
	if err != nil {
		return err
	}
	logger.Debug("loaded exports",
		zap.String("insulin", config.Input.Insulin),
		zap.Int("insulin events", len(insulin)),
		zap.String("cgm", config.Input.CGM),
		zap.Int("cgm readings", len(cgm)),
	)

	table, err := Compute(insulin, cgm, config, logger)
	if err != nil {
		return err
	}

	if err := report.Save(config.Output.Path, format, table); err != nil {
		return err
	}
	logger.Info("saved summary",
		zap.String("path", config.Output.Path),
		zap.Stringer("format", format),
	)
	return nil
}

// Compute turns chronological insulin events and CGM readings into the summary table.
func Compute(insulin []defs.InsulinEvent, cgm []defs.Reading, config defs.Config, logger *zap.Logger) (report.Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dropped := segment.DroppedDays(cgm, config.CountThreshold)
	cgm = segment.FilterDays(cgm, config.CountThreshold)
	logger.Debug("filtered incomplete days",
		zap.Int("count threshold", config.CountThreshold),
		zap.Strings("dropped days", dropped),
		zap.Int("remaining readings", len(cgm)),
	)

	switchTime, err := segment.SwitchTime(insulin, config.AutoModeAlarm)
	if err != nil {
		return report.Table{}, fmt.Errorf("unable to find mode switch %q: %w", config.AutoModeAlarm, err)
	}
	auto, manual := segment.ByMode(cgm, switchTime)
	logger.Debug("split readings by mode",
		zap.Time("switch", switchTime),
		zap.Int("manual", len(manual)),
		zap.Int("auto", len(auto)),
	)

	rows := make(map[defs.Mode][]float64, 2)
	for _, mode := range []defs.Mode{defs.Manual, defs.Auto} {
		trs := manual
		if mode == defs.Auto {
			trs = auto
		}

		ss := stats.GlucoseSummary(trs)
		logger.Info("mode glucose",
			zap.Stringer("mode", mode),
			zap.Int("readings", ss.Count),
			zap.Float64("average", ss.Average),
			zap.Float64("deviation", ss.Deviation),
		)

		row, err := ModeRow(mode, trs)
		if err != nil {
			return report.Table{}, err
		}
		rows[mode] = row
	}

	return report.NewTable(rows[defs.Manual], rows[defs.Auto]), nil
}

// ModeRow computes one report row for the readings of a single mode: every metric for the
// overnight window, then the daytime window, then the whole day. Window metrics use
// interpolated readings; whole day metrics use the readings as recorded.
func ModeRow(mode defs.Mode, trs []defs.Reading) ([]float64, error) {
	overnight, daytime := segment.ByWindow(trs)
	windows := map[defs.Window][]defs.Reading{
		defs.Overnight: interp.Linear(overnight),
		defs.Daytime:   interp.Spline(daytime),
		defs.WholeDay:  trs,
	}

	row := make([]float64, 0, len(defs.Windows)*len(defs.Metrics))
	for _, w := range defs.Windows {
		ps, err := stats.Percentages(windows[w])
		if err != nil {
			return nil, fmt.Errorf("unable to aggregate %s %s readings: %w", mode, w, err)
		}
		row = append(row, ps...)
	}
	return row, nil
}
