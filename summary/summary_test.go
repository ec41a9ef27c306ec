package summary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ichor/summary/defs"
	"ichor/summary/pkg/report"
	"ichor/summary/pkg/segment"
	"ichor/summary/pkg/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var day0 = time.Date(2017, time.August, 9, 0, 0, 0, 0, time.UTC)

type SummaryTestSuite struct {
	suite.Suite
	config defs.Config
}

func TestSummaryTestSuite(t *testing.T) {
	suite.Run(t, new(SummaryTestSuite))
}

func (suite *SummaryTestSuite) SetupTest() {
	dir := suite.T().TempDir()
	suite.config = defs.DefaultConfig()
	suite.config.Input.Insulin = filepath.Join(dir, defs.DefaultInsulinFile)
	suite.config.Input.CGM = filepath.Join(dir, defs.DefaultCGMFile)
	suite.config.Output.Path = filepath.Join(dir, defs.DefaultResultsFile)
	suite.config.Logger = zap.NewNop()
}

// genDay returns a full day of readings from midnight of day0 plus the offset.
func genDay(offset int, mgdl func(i int) float64) []defs.Reading {
	start := day0.AddDate(0, 0, offset)
	trs := make([]defs.Reading, defs.ReadingsPerDay)
	for i := range trs {
		trs[i] = defs.Reading{Time: start.Add(time.Duration(i*5) * time.Minute), Mgdl: mgdl(i)}
	}
	return trs
}

func flat(v float64) func(int) float64 {
	return func(int) float64 { return v }
}

func switchAt(t time.Time) []defs.InsulinEvent {
	return []defs.InsulinEvent{
		{Time: t.Add(-time.Hour), Alarm: "SENSOR UPDATING"},
		{Time: t, Alarm: defs.DefaultAutoModeAlarm},
		{Time: t.Add(time.Hour), Alarm: defs.DefaultAutoModeAlarm},
	}
}

func (suite *SummaryTestSuite) TestManualDayAt200() {
	cgm := genDay(0, flat(200))
	_, manual := segment.ByMode(cgm, day0.Add(24*time.Hour))

	row, err := ModeRow(defs.Manual, manual)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), row, 18)

	wholeDay := row[12:]
	assert.Equal(suite.T(), 100.0, wholeDay[defs.AboveRange180])
	assert.Equal(suite.T(), 0.0, wholeDay[defs.InRange70To180])
	assert.Equal(suite.T(), 25.0, row[defs.AboveRange180], "overnight holds 72 readings")
}

func (suite *SummaryTestSuite) TestComputeWithoutAutoDays() {
	cgm := genDay(0, flat(200))
	_, err := Compute(switchAt(day0.Add(24*time.Hour)), cgm, suite.config, nil)

	assert.True(suite.T(), errors.Is(err, stats.ErrEmptyDateGroup), "got %v", err)
	assert.Contains(suite.T(), err.Error(), "Auto overnight")
}

func (suite *SummaryTestSuite) TestComputeNoAutoModeEvent() {
	_, err := Compute(nil, genDay(0, flat(120)), suite.config, nil)
	assert.True(suite.T(), errors.Is(err, segment.ErrNoAutoModeEvent))
}

func (suite *SummaryTestSuite) TestCompute() {
	var cgm []defs.Reading
	cgm = append(cgm, genDay(0, flat(200))...)
	cgm = append(cgm, genDay(1, flat(60))[:100]...) // Dropped, too few readings.
	cgm = append(cgm, genDay(2, flat(100))...)
	auto := genDay(3, flat(260))
	for i := 80; i < 90; i++ {
		auto[i].Missing = true
	}
	cgm = append(cgm, auto...)

	table, err := Compute(switchAt(day0.AddDate(0, 0, 2).Add(23*time.Hour+55*time.Minute)), cgm, suite.config, zap.NewNop())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), table.Rows, 2)

	manual, autoRow := table.Rows[0].Values, table.Rows[1].Values
	require.Len(suite.T(), manual, 19)
	require.Len(suite.T(), autoRow, 19)
	assert.Equal(suite.T(), report.Placeholder, manual[18])
	assert.Equal(suite.T(), report.Placeholder, autoRow[18])

	// Manual covers day 0 at 200 and day 2 at 100.
	assert.Equal(suite.T(), 50.0, manual[12+int(defs.AboveRange180)])
	assert.Equal(suite.T(), 50.0, manual[12+int(defs.InRange70To150)])
	assert.Equal(suite.T(), 0.0, manual[12+int(defs.BelowRange70)])

	// Auto day: daytime gaps are interpolated, whole day is not.
	daytime := float64(215)
	assert.Equal(suite.T(), daytime/288*100, autoRow[6+int(defs.AboveRange250)])
	wholeDay := float64(278)
	assert.Equal(suite.T(), wholeDay/288*100, autoRow[12+int(defs.AboveRange250)])

	for _, row := range table.Rows {
		for _, v := range row.Values[:18] {
			assert.True(suite.T(), v >= 0 && v <= 100, "percentage %v out of bounds", v)
		}
	}
}

func (suite *SummaryTestSuite) TestComputeDeterministic() {
	var cgm []defs.Reading
	cgm = append(cgm, genDay(0, func(i int) float64 { return float64(40 + i) })...)
	cgm = append(cgm, genDay(1, func(i int) float64 { return float64(330 - i) })...)
	for i := 10; i < 300; i += 7 {
		cgm[i].Missing = true
	}
	events := switchAt(day0.Add(18 * time.Hour))

	first, err := Compute(events, cgm, suite.config, nil)
	require.NoError(suite.T(), err)
	second, err := Compute(events, cgm, suite.config, nil)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), first, second)
}

func (suite *SummaryTestSuite) TestRun() {
	suite.writeExports(day0.Add(12*time.Hour+30*time.Second), 3)
	require.NoError(suite.T(), Run(suite.config))

	contents, err := os.ReadFile(suite.config.Output.Path)
	require.NoError(suite.T(), err)

	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	require.Len(suite.T(), lines, 2)
	for _, line := range lines {
		fields := strings.Split(line, ",")
		assert.Len(suite.T(), fields, 19)
		assert.Equal(suite.T(), "1.1", fields[18])
	}
}

func (suite *SummaryTestSuite) TestRunLeavesNoPartialOutput() {
	suite.writeExports(day0.AddDate(0, 0, 10), 1)
	err := Run(suite.config)
	require.Error(suite.T(), err)

	_, err = os.Stat(suite.config.Output.Path)
	assert.True(suite.T(), errors.Is(err, os.ErrNotExist))
}

func (suite *SummaryTestSuite) TestRunMissingInput() {
	err := Run(suite.config)
	assert.True(suite.T(), errors.Is(err, os.ErrNotExist), "got %v", err)
}

// writeExports writes CareLink style exports, newest row first, covering the given number
// of full days with a mode switch at switchTime.
func (suite *SummaryTestSuite) writeExports(switchTime time.Time, days int) {
	var cgm strings.Builder
	cgm.WriteString("Index,Date,Time,Sensor Glucose (mg/dL)\n")
	index := 0
	for d := days - 1; d >= 0; d-- {
		trs := genDay(d, func(i int) float64 { return float64(60 + i%200) })
		for i := len(trs) - 1; i >= 0; i-- {
			value := fmt.Sprint(trs[i].Mgdl)
			if i%50 == 0 {
				value = ""
			}
			fmt.Fprintf(&cgm, "%d,%s,%s,%s\n", index, trs[i].Time.Format("1/2/2006"), trs[i].Time.Format("15:04:05"), value)
			index++
		}
	}

	var insulin strings.Builder
	insulin.WriteString("Index,Date,Time,Alarm\n")
	for i, ev := range []time.Time{switchTime.Add(time.Hour), switchTime, switchTime.Add(-time.Hour)} {
		alarm := ""
		if ev.Equal(switchTime) {
			alarm = defs.DefaultAutoModeAlarm
		}
		fmt.Fprintf(&insulin, "%d,%s,%s,%s\n", i, ev.Format("1/2/2006"), ev.Format("15:04:05"), alarm)
	}

	require.NoError(suite.T(), os.WriteFile(suite.config.Input.CGM, []byte(cgm.String()), 0o644))
	require.NoError(suite.T(), os.WriteFile(suite.config.Input.Insulin, []byte(insulin.String()), 0o644))
}
