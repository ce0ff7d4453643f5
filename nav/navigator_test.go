package nav

import (
	"context"
	"testing"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver"
	"github.com/mohitgarg/socialflow/driver/dryrun"
	"github.com/mohitgarg/socialflow/ledger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/pacing"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://www.linkedin.com"

func newTestNavigator(t *testing.T) (*Navigator, *dryrun.Driver, *ledger.Ledger) {
	t.Helper()
	conf := config.Default()
	conf.BaseURL = testBaseURL
	conf.HumanBehavior.EnableCoolingOff = false
	conf.HumanBehavior.MinActionDelay = 0
	conf.HumanBehavior.MaxActionDelay = 0

	drv := dryrun.New()
	l := ledger.New(ledger.NewInMemoryStore())
	pc := pacing.NewController(drv, l, nil, conf.HumanBehavior)
	return NewNavigator(drv, pc, l, conf), drv, l
}

func TestNormalizeProfileURL(t *testing.T) {
	n, _, _ := newTestNavigator(t)
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare id", "jane-doe", testBaseURL + "/in/jane-doe/", false},
		{"canonical url passes through", testBaseURL + "/in/jane-doe/", testBaseURL + "/in/jane-doe/", false},
		{"url with query", testBaseURL + "/in/jane-doe?originalSubdomain=uk", testBaseURL + "/in/jane-doe/", false},
		{"url with trailing segment", testBaseURL + "/in/jane-doe/details/experience/", testBaseURL + "/in/jane-doe/", false},
		{"foreign host keeps own host out", "https://elsewhere.example/in/jane-doe/", testBaseURL + "/in/jane-doe/", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"non profile url", testBaseURL + "/feed/", "", true},
		{"id with spaces", "jane doe", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := n.NormalizeProfileURL(tc.in)
			if tc.wantErr {
				var verr model.ValidationError
				require.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestProfileIdFromURL(t *testing.T) {
	require.Equal(t, "jane-doe", ProfileIdFromURL(testBaseURL+"/in/jane-doe/"))
	require.Equal(t, "jane-doe", ProfileIdFromURL("jane-doe"))
}

func TestToProfile_NavigatesAndRecords(t *testing.T) {
	n, drv, l := newTestNavigator(t)
	url, err := n.ToProfile(context.Background(), "jane-doe")
	require.NoError(t, err)
	require.Equal(t, testBaseURL+"/in/jane-doe/", url)
	require.Equal(t, 1, drv.CallCount("navigate", url))

	recs := l.Query(0)
	require.Len(t, recs, 1)
	require.Equal(t, model.ACTION_NAVIGATION, recs[0].Type)
}

func TestOpenMessageThread_UsesMessageAffordance(t *testing.T) {
	n, drv, _ := newTestNavigator(t)
	require.NoError(t, n.OpenMessageThread(context.Background(), "jane-doe"))
	require.Equal(t, 1, drv.CallCount("click", SelectorMessageButton))
	require.Zero(t, drv.CallCount("navigate", ""))
}

// When the profile has no message affordance the navigator goes to the
// thread url directly instead of failing.
func TestOpenMessageThread_FallsBackToThreadURL(t *testing.T) {
	n, drv, _ := newTestNavigator(t)
	drv.SetMissing(SelectorMessageButton)

	require.NoError(t, n.OpenMessageThread(context.Background(), "jane-doe"))
	require.Zero(t, drv.CallCount("click", SelectorMessageButton))
	require.Equal(t, 1, drv.CallCount("navigate", testBaseURL+"/messaging/thread/new?recipient=jane-doe"))
}

func TestOpenMessageThread_ComposerMissingIsAnError(t *testing.T) {
	n, drv, _ := newTestNavigator(t)
	drv.SetMissing(SelectorMessageComposer)

	err := n.OpenMessageThread(context.Background(), "jane-doe")
	require.Error(t, err)
	require.Equal(t, driver.CODE_ELEMENT_NOT_FOUND, driver.CodeOf(err))
}

func TestOpenPostComposer(t *testing.T) {
	n, drv, _ := newTestNavigator(t)
	require.NoError(t, n.OpenPostComposer(context.Background()))
	require.Equal(t, 1, drv.CallCount("navigate", testBaseURL+FeedPath))
	require.Equal(t, 1, drv.CallCount("click", SelectorShareBoxTrigger))
	require.Equal(t, 1, drv.CallCount("waitForSelector", SelectorPostEditor))
}

func TestConnectionStatus(t *testing.T) {
	t.Run("connect affordance means not connected", func(t *testing.T) {
		n, _, _ := newTestNavigator(t)
		connected, err := n.ConnectionStatus(context.Background(), "jane-doe")
		require.NoError(t, err)
		require.False(t, connected)
	})
	t.Run("pending invitation counts as connected", func(t *testing.T) {
		n, drv, _ := newTestNavigator(t)
		drv.SetMissing(SelectorConnectButton)
		connected, err := n.ConnectionStatus(context.Background(), "jane-doe")
		require.NoError(t, err)
		require.True(t, connected)
	})
	t.Run("message affordance without connect counts as connected", func(t *testing.T) {
		n, drv, _ := newTestNavigator(t)
		drv.SetMissing(SelectorConnectButton, SelectorPendingButton)
		connected, err := n.ConnectionStatus(context.Background(), "jane-doe")
		require.NoError(t, err)
		require.True(t, connected)
	})
	t.Run("no affordance at all is an error", func(t *testing.T) {
		n, drv, _ := newTestNavigator(t)
		drv.SetMissing(SelectorConnectButton, SelectorPendingButton, SelectorMessageButton)
		_, err := n.ConnectionStatus(context.Background(), "jane-doe")
		require.Error(t, err)
		require.Equal(t, driver.CODE_ELEMENT_NOT_FOUND, driver.CodeOf(err))
	})
}

func TestClickConnect(t *testing.T) {
	t.Run("clicks the connect affordance", func(t *testing.T) {
		n, drv, _ := newTestNavigator(t)
		require.NoError(t, n.ClickConnect(context.Background(), "jane-doe"))
		require.Equal(t, 1, drv.CallCount("click", SelectorConnectButton))
	})
	t.Run("pending invitation reports already connected without clicking", func(t *testing.T) {
		n, drv, _ := newTestNavigator(t)
		drv.SetMissing(SelectorConnectButton)

		err := n.ClickConnect(context.Background(), "jane-doe")
		var already model.AlreadyConnectedError
		require.ErrorAs(t, err, &already)
		require.Equal(t, "jane-doe", already.ProfileId)
		require.Zero(t, drv.CallCount("click", ""))
	})
}

func TestTypeInto_RecordsLengthNotContent(t *testing.T) {
	n, drv, l := newTestNavigator(t)
	el, err := n.Locate(context.Background(), SelectorMessageComposer)
	require.NoError(t, err)
	require.NoError(t, n.TypeInto(context.Background(), el, "hello there", "composer"))
	require.Equal(t, 1, drv.CallCount("type", SelectorMessageComposer))

	recs := l.Query(0)
	require.Len(t, recs, 1)
	require.Equal(t, model.ACTION_TYPING, recs[0].Type)
	require.Equal(t, 11, recs[0].Metadata["length"])
	require.NotContains(t, recs[0].Metadata, "text")
}
