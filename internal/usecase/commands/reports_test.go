//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"blib-backend/internal/domain/command"
	"blib-backend/internal/pkg/clock"
	"blib-backend/internal/usecase/commands"
	"blib-backend/internal/usecase/shared"
	"blib-backend/tests/common/fake"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ReportTestSuite struct {
	suite.Suite
	store *fake.Store
	clock *clock.MockClock
	uc    commands.ReportCommands
}

func (s *ReportTestSuite) SetupTest() {
	s.store = fake.NewStore()
	s.clock = clock.NewMockClock(time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC))
	s.uc = commands.NewReportUseCase(fake.NewUoW(s.store), s.clock)
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (s *ReportTestSuite) TestGenerate() {
	s.store.StatusPoints = []shared.StatusPoint{
		{Date: date(2024, time.March, 1), Active: 10, Frozen: 2},
		{Date: date(2024, time.March, 2), Active: 11, Frozen: 1},
	}
	s.store.GenreStats = []shared.GenreBorrowStats{
		{Genre: "science fiction", AvgDays: 9.5, LatePercent: 25},
	}
	s.store.NewSubscribers = 3

	s.Require().NoError(s.uc.Generate(context.Background(), 2024, 3))

	var points []shared.StatusPoint
	s.Require().NoError(json.Unmarshal(s.store.Report(shared.ReportKindSubscriberStatus, 2024, 3), &points))
	s.Len(points, 2)
	s.Equal(10, points[0].Active)

	var stats []shared.GenreBorrowStats
	s.Require().NoError(json.Unmarshal(s.store.Report(shared.ReportKindBorrowStats, 2024, 3), &stats))
	s.Require().Len(stats, 1)
	s.Equal("science fiction", stats[0].Genre)

	var count map[string]int
	s.Require().NoError(json.Unmarshal(s.store.Report(shared.ReportKindNewSubscribers, 2024, 3), &count))
	s.Equal(3, count["count"])

	// Generation re-enqueues itself for the end of the next month.
	next := commandsOfKind(s.store, command.KindGenerateReports)
	s.Require().Len(next, 1)
	s.Equal(time.Date(2024, time.April, 30, 23, 30, 0, 0, time.UTC), next[0].DueAt)
	p, err := next[0].GenerateReports()
	s.Require().NoError(err)
	s.Equal(2024, p.Year)
	s.Equal(4, p.Month)
}

func (s *ReportTestSuite) TestGenerateDecemberRollsOver() {
	s.Require().NoError(s.uc.Generate(context.Background(), 2024, 12))

	next := commandsOfKind(s.store, command.KindGenerateReports)
	s.Require().Len(next, 1)
	s.Equal(time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC), next[0].DueAt)
	p, err := next[0].GenerateReports()
	s.Require().NoError(err)
	s.Equal(2025, p.Year)
	s.Equal(1, p.Month)
}

func (s *ReportTestSuite) TestEnsureScheduled() {
	s.Run("empty queue seeds the chain for the current month", func() {
		s.SetupTest()
		s.Require().NoError(s.uc.EnsureScheduled(context.Background()))

		cmds := commandsOfKind(s.store, command.KindGenerateReports)
		s.Require().Len(cmds, 1)
		s.Equal(time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC), cmds[0].DueAt)
	})

	s.Run("pending generation is left alone", func() {
		s.SetupTest()
		s.Require().NoError(s.uc.EnsureScheduled(context.Background()))
		s.Require().NoError(s.uc.EnsureScheduled(context.Background()))

		s.Len(commandsOfKind(s.store, command.KindGenerateReports), 1)
	})
}

func TestReportGenerationTime(t *testing.T) {
	cases := []struct {
		year, month int
		want        time.Time
	}{
		{2024, 2, time.Date(2024, time.February, 29, 23, 30, 0, 0, time.UTC)},
		{2023, 2, time.Date(2023, time.February, 28, 23, 30, 0, 0, time.UTC)},
		{2024, 12, time.Date(2024, time.December, 31, 23, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := commands.ReportGenerationTime(tc.year, tc.month)
		require.Equal(t, tc.want, got)
	}
	assert.True(t, commands.ReportGenerationTime(2024, 4).After(date(2024, time.April, 30)))
}
