package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MetricsTestSuite covers the recorder and its HTTP exposition.
type MetricsTestSuite struct {
	suite.Suite
	recorder *Recorder
}

// SetupTest creates a fresh recorder.
func (s *MetricsTestSuite) SetupTest() {
	s.recorder = New()
}

// TestToolCalls verifies counting by tool and outcome.
func (s *MetricsTestSuite) TestToolCalls() {
	s.recorder.ObserveToolCall("compress_video", "success", 2*time.Second)
	s.recorder.ObserveToolCall("compress_video", "success", time.Second)
	s.recorder.ObserveToolCall("compress_video", "validation", time.Millisecond)

	assert.Equal(s.T(), 2.0, testutil.ToFloat64(s.recorder.toolCalls.WithLabelValues("compress_video", "success")))
	assert.Equal(s.T(), 1.0, testutil.ToFloat64(s.recorder.toolCalls.WithLabelValues("compress_video", "validation")))
	assert.Equal(s.T(), 1, testutil.CollectAndCount(s.recorder.toolDuration))
}

// TestProcesses verifies that program labels use the base name.
func (s *MetricsTestSuite) TestProcesses() {
	s.recorder.ObserveProcess("/usr/bin/ffmpeg", 300*time.Millisecond)
	s.recorder.ObserveProcess("ffprobe", 10*time.Millisecond)
	s.recorder.ObserveLaunchFailure("/opt/ffmpeg/bin/ffprobe")
	s.recorder.ObserveLaunchFailure("/opt/ffmpeg")

	assert.Equal(s.T(), 2, testutil.CollectAndCount(s.recorder.processDuration))
	assert.Equal(s.T(), 1.0, testutil.ToFloat64(s.recorder.launchFailures.WithLabelValues("ffmpeg")))
	assert.Equal(s.T(), 1.0, testutil.ToFloat64(s.recorder.launchFailures.WithLabelValues("ffprobe")))
	assert.Equal(s.T(), "ffmpeg", programLabel("/usr/local/bin/ffmpeg"))
}

// TestHandler verifies the exposition format.
func (s *MetricsTestSuite) TestHandler() {
	s.recorder.ObserveToolCall("merge_videos", "execution", time.Second)

	server := httptest.NewServer(s.recorder.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Contains(s.T(), string(body), `mediamcp_tool_calls_total{outcome="execution",tool="merge_videos"} 1`)
	assert.Contains(s.T(), string(body), "go_goroutines")
}

// TestServeStopsOnCancel verifies that Serve returns once the context ends.
func (s *MetricsTestSuite) TestServeStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.recorder.Serve(ctx, "127.0.0.1:0", hclog.NewNullLogger())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(s.T(), err)
	case <-time.After(10 * time.Second):
		s.T().Fatal("Serve did not return after cancellation")
	}
}

// TestServeReportsListenErrors verifies that a bad address fails fast.
func (s *MetricsTestSuite) TestServeReportsListenErrors() {
	err := s.recorder.Serve(context.Background(), "256.0.0.1:bad", hclog.NewNullLogger())
	assert.Error(s.T(), err)
}

// TestMetricsSuite runs the metrics test suite.
func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}
