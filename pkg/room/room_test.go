package room

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"tableflip.dev/roomtimer/pkg/schedule"
)

type fakeTable map[string]string

func (f fakeTable) Lookup(code string) (string, bool) {
	text, ok := f[code]
	return text, ok
}

type recordingDisplay struct {
	timer   TimerView
	code    CodeView
	gate    GateView
	notices []Notice
	frames  int
}

func (d *recordingDisplay) RenderTimer(v TimerView) { d.timer = v; d.frames++ }
func (d *recordingDisplay) RenderCode(v CodeView)   { d.code = v }
func (d *recordingDisplay) RenderGate(v GateView)   { d.gate = v }
func (d *recordingDisplay) Notify(n Notice)         { d.notices = append(d.notices, n) }

func (d *recordingDisplay) count(kind NoticeKind) int {
	n := 0
	for _, notice := range d.notices {
		if notice.Kind == kind {
			n++
		}
	}
	return n
}

type memoryRecorder struct {
	sessions []Session
}

func (r *memoryRecorder) Record(s Session) error {
	r.sessions = append(r.sessions, s)
	return nil
}

type harness struct {
	ctl   *Controller
	sched *schedule.Manual
	clock *clockwork.FakeClock
	disp  *recordingDisplay
	rec   *memoryRecorder
	start time.Time
}

var testEpoch = time.Date(2025, time.March, 3, 19, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testEpoch)
	sched := schedule.NewManual(clock)
	disp := &recordingDisplay{}
	rec := &memoryRecorder{}
	table := fakeTable{"1234": "Look under the desk."}
	ctl := New(DefaultSettings(), table,
		WithClock(clock),
		WithScheduler(sched),
		WithDisplay(disp),
		WithRecorder(rec),
	)
	ctl.Boot()
	return &harness{ctl: ctl, sched: sched, clock: clock, disp: disp, rec: rec, start: clock.Now()}
}

func (h *harness) send(events ...Event) {
	for _, ev := range events {
		h.ctl.Dispatch(ev)
	}
}

func (h *harness) digits(code string) {
	for _, r := range code {
		h.ctl.Dispatch(DigitPressed{Digit: string(r)})
	}
}

func (h *harness) openControls(t *testing.T) {
	t.Helper()
	h.send(TitleTapped{}, TitleTapped{}, TitleTapped{})
	if got := h.ctl.State().Gate.Stage; got != StagePasswordPrompt {
		t.Fatalf("expected password prompt, got %s", got)
	}
	h.send(PasswordSubmitted{Input: DefaultSecret})
	if got := h.ctl.State().Gate.Stage; got != StageControls {
		t.Fatalf("expected controls, got %s", got)
	}
}

func (h *harness) closeGate() {
	h.send(BackgroundTapped{}, BackgroundTapped{}, BackgroundTapped{})
}

func TestBootState(t *testing.T) {
	h := newHarness(t)
	st := h.ctl.State()
	if st.Timer.Status != StatusStopped {
		t.Fatalf("expected boot status stopped, got %s", st.Timer.Status)
	}
	if st.Timer.TimeLeft != DefaultTotalDuration {
		t.Fatalf("expected full duration, got %v", st.Timer.TimeLeft)
	}
	if h.disp.timer.Remaining != "90:00" {
		t.Fatalf("expected 90:00, got %q", h.disp.timer.Remaining)
	}
	if h.disp.timer.HintCounter != "0/999" {
		t.Fatalf("expected 0/999, got %q", h.disp.timer.HintCounter)
	}
	if h.disp.timer.Buttons != (Buttons{Start: true, Stop: true, Reset: true}) {
		t.Fatalf("expected all buttons enabled, got %+v", h.disp.timer.Buttons)
	}
	if h.disp.timer.WallClock != "19:00" {
		t.Fatalf("expected wall clock 19:00, got %q", h.disp.timer.WallClock)
	}
}

func TestStartWhileGateOpenQueues(t *testing.T) {
	h := newHarness(t)
	h.openControls(t)

	h.send(StartPressed{})
	st := h.ctl.State()
	if st.Timer.Status != StatusQueuedStart {
		t.Fatalf("expected queued start, got %s", st.Timer.Status)
	}
	if st.Gate.Queued != ActionStart {
		t.Fatalf("expected start queued")
	}
	if !st.Timer.StartEpoch.IsZero() {
		t.Fatalf("start epoch must be unset while queued")
	}
	if h.disp.gate.Buttons != (Buttons{Start: true, Stop: false, Reset: false}) {
		t.Fatalf("unexpected queued buttons %+v", h.disp.gate.Buttons)
	}

	h.sched.Advance(5 * time.Second)
	if got := h.ctl.State().Timer.TimeLeft; got != DefaultTotalDuration {
		t.Fatalf("queued timer must not count down, time left %v", got)
	}

	// Stop and reset are disabled while queued.
	h.send(StopPressed{}, ResetPressed{})
	if got := h.ctl.State().Timer.Status; got != StatusQueuedStart {
		t.Fatalf("expected disabled buttons to be ignored, got %s", got)
	}

	// Pressing start again unqueues.
	h.send(StartPressed{})
	st = h.ctl.State()
	if st.Timer.Status != StatusStopped || st.Gate.Queued != ActionNone {
		t.Fatalf("expected unqueue back to stopped, got %s queued=%v", st.Timer.Status, st.Gate.Queued)
	}

	h.send(StartPressed{})
	h.closeGate()
	st = h.ctl.State()
	if st.Gate.Stage != StageHidden {
		t.Fatalf("expected gate hidden, got %s", st.Gate.Stage)
	}
	if st.Timer.Status != StatusRunning {
		t.Fatalf("expected close to run queued start, got %s", st.Timer.Status)
	}
	if !st.Timer.StartEpoch.Equal(h.clock.Now()) {
		t.Fatalf("expected start epoch at close time")
	}
	if st.Gate.Queued != ActionNone {
		t.Fatalf("expected queue cleared")
	}
	if h.disp.timer.StatusText != "Running" {
		t.Fatalf("expected Running status text, got %q", h.disp.timer.StatusText)
	}
}

func TestStartWithGateHiddenRunsImmediately(t *testing.T) {
	h := newHarness(t)
	h.digits("12")
	h.send(StartPressed{})
	st := h.ctl.State()
	if st.Timer.Status != StatusRunning {
		t.Fatalf("expected running, got %s", st.Timer.Status)
	}
	if st.Code.Digits != "" {
		t.Fatalf("expected start to clear code entry, got %q", st.Code.Digits)
	}
	h.sched.Advance(10 * time.Second)
	if got := h.ctl.State().Timer.TimeLeft; got != DefaultTotalDuration-10*time.Second {
		t.Fatalf("expected 10s elapsed, time left %v", got)
	}
	if h.disp.timer.Remaining != "89:50" {
		t.Fatalf("expected 89:50, got %q", h.disp.timer.Remaining)
	}
	if h.disp.timer.Buttons != (Buttons{Start: false, Stop: true, Reset: true}) {
		t.Fatalf("unexpected running buttons %+v", h.disp.timer.Buttons)
	}
}

func TestStopCancelsTickAndKeepsTimeLeft(t *testing.T) {
	h := newHarness(t)
	h.send(StartPressed{})
	h.sched.Advance(3 * time.Second)
	h.send(StopPressed{})
	left := h.ctl.State().Timer.TimeLeft

	h.sched.Advance(time.Minute)
	st := h.ctl.State()
	if st.Timer.Status != StatusStopped {
		t.Fatalf("expected stopped, got %s", st.Timer.Status)
	}
	if st.Timer.TimeLeft != left {
		t.Fatalf("stale tick changed time left: %v -> %v", left, st.Timer.TimeLeft)
	}
	if !st.Timer.StartEpoch.IsZero() {
		t.Fatalf("start epoch must be cleared when stopped")
	}
}

func TestStartAfterStopCountsFromFullDuration(t *testing.T) {
	h := newHarness(t)
	h.send(StartPressed{})
	h.sched.Advance(10 * time.Minute)
	h.send(StopPressed{})
	if got := h.ctl.State().Timer.TimeLeft; got != 80*time.Minute {
		t.Fatalf("expected 80m frozen after stop, got %v", got)
	}
	h.sched.Advance(5 * time.Minute)
	if got := h.ctl.State().Timer.TimeLeft; got != 80*time.Minute {
		t.Fatalf("expected stopped time to stay at 80m, got %v", got)
	}
	h.send(StartPressed{})
	h.sched.Advance(time.Minute)
	if got := h.ctl.State().Timer.TimeLeft; got != 89*time.Minute {
		t.Fatalf("expected 89m left a minute after restart, got %v", got)
	}
}

func TestQueuedStartClearsCode(t *testing.T) {
	h := newHarness(t)
	h.digits("12")
	h.openControls(t)
	h.send(StartPressed{})
	st := h.ctl.State()
	if st.Timer.Status != StatusQueuedStart {
		t.Fatalf("expected queued start, got %s", st.Timer.Status)
	}
	if st.Code.Digits != "" {
		t.Fatalf("expected code cleared on queue, got %q", st.Code.Digits)
	}
}

func TestResetAlwaysRestores(t *testing.T) {
	h := newHarness(t)
	h.send(StartPressed{})
	h.sched.Advance(time.Minute)
	h.digits("1234")
	h.send(HintDismissed{})
	if h.ctl.State().HintsUsed != 1 {
		t.Fatalf("expected one hint used")
	}

	h.send(ResetPressed{})
	st := h.ctl.State()
	if st.Timer.Status != StatusReset {
		t.Fatalf("expected reset, got %s", st.Timer.Status)
	}
	if st.Timer.TimeLeft != DefaultTotalDuration {
		t.Fatalf("expected full duration, got %v", st.Timer.TimeLeft)
	}
	if st.HintsUsed != 0 {
		t.Fatalf("expected hint counter cleared, got %d", st.HintsUsed)
	}
	if h.disp.timer.Buttons != (Buttons{Start: true, Stop: false, Reset: false}) {
		t.Fatalf("unexpected reset buttons %+v", h.disp.timer.Buttons)
	}
	if len(h.rec.sessions) != 1 || h.rec.sessions[0].Outcome != OutcomeReset {
		t.Fatalf("expected one reset session, got %+v", h.rec.sessions)
	}
	if h.rec.sessions[0].HintsUsed != 1 {
		t.Fatalf("expected session to record one hint, got %d", h.rec.sessions[0].HintsUsed)
	}

	h.sched.Advance(time.Minute)
	if got := h.ctl.State().Timer.TimeLeft; got != DefaultTotalDuration {
		t.Fatalf("tick survived reset, time left %v", got)
	}
}

func TestFifthDigitIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.digits("5678")
	h.digits("9")
	st := h.ctl.State()
	if st.Code.Digits != "5678" {
		t.Fatalf("expected 5678, got %q", st.Code.Digits)
	}
	if !st.Code.Invalid {
		t.Fatalf("expected invalid flash for unmapped code")
	}
	if !h.disp.code.Invalid || h.disp.code.Filled != 4 {
		t.Fatalf("unexpected code view %+v", h.disp.code)
	}

	h.sched.Advance(999 * time.Millisecond)
	if h.ctl.State().Code.Digits == "" {
		t.Fatalf("code cleared before the flash delay")
	}
	h.sched.Advance(time.Millisecond)
	st = h.ctl.State()
	if st.Code.Digits != "" || st.Code.Invalid {
		t.Fatalf("expected code cleared after flash, got %+v", st.Code)
	}
	if st.HintsUsed != 0 {
		t.Fatalf("invalid code must not count, got %d", st.HintsUsed)
	}
}

func TestValidCodeShowsHintAndCountsEveryTime(t *testing.T) {
	h := newHarness(t)
	for i := 1; i <= 2; i++ {
		h.digits("1234")
		if !h.disp.code.Popup.Shown || h.disp.code.Popup.Text != "Look under the desk." {
			t.Fatalf("expected hint popup, got %+v", h.disp.code.Popup)
		}
		if got := h.ctl.State().HintsUsed; got != i {
			t.Fatalf("expected %d hints used, got %d", i, got)
		}
		h.digits("5")
		if got := h.ctl.State().Code.Digits; got != "1234" {
			t.Fatalf("digits must be ignored under popup, got %q", got)
		}
		h.send(CancelPressed{})
		st := h.ctl.State()
		if st.Code.Popup.Shown || st.Code.Digits != "" {
			t.Fatalf("expected dismissal to clear code, got %+v", st.Code)
		}
	}
	if h.disp.timer.HintCounter != "2/999" {
		t.Fatalf("expected 2/999, got %q", h.disp.timer.HintCounter)
	}
}

func TestTimeOverFiresOnce(t *testing.T) {
	h := newHarness(t)
	h.send(StartPressed{})
	h.sched.Advance(5_399_900 * time.Millisecond)
	if got := h.ctl.State().Timer.Status; got != StatusRunning {
		t.Fatalf("expected running just before the end, got %s", got)
	}
	h.sched.Advance(100 * time.Millisecond)

	st := h.ctl.State()
	if st.Timer.TimeLeft != 0 {
		t.Fatalf("expected zero time left, got %v", st.Timer.TimeLeft)
	}
	if st.Timer.Status != StatusStopped {
		t.Fatalf("expected stopped at time over, got %s", st.Timer.Status)
	}
	if got := h.disp.count(NoticeTimeOver); got != 1 {
		t.Fatalf("expected one time-over notice, got %d", got)
	}
	if !h.disp.code.Popup.TimeOver || h.disp.code.Popup.Text != "Time over!" {
		t.Fatalf("expected time-over popup, got %+v", h.disp.code.Popup)
	}
	if h.disp.timer.Remaining != "00:00" || h.disp.timer.RingOffset != DefaultRingCircumference {
		t.Fatalf("unexpected final timer view %+v", h.disp.timer)
	}

	h.sched.Advance(time.Hour)
	if got := h.disp.count(NoticeTimeOver); got != 1 {
		t.Fatalf("time-over notice repeated: %d", got)
	}

	h.send(HintDismissed{})
	h.digits("1234")
	if got := h.ctl.State().Code.Digits; got != "" {
		t.Fatalf("keypad must stay disabled after time over, got %q", got)
	}
	if len(h.rec.sessions) != 1 || h.rec.sessions[0].Outcome != OutcomeTimeOver {
		t.Fatalf("expected one time-over session, got %+v", h.rec.sessions)
	}

	h.send(ResetPressed{})
	h.digits("12")
	if got := h.ctl.State().Code.Digits; got != "12" {
		t.Fatalf("reset must re-enable the keypad, got %q", got)
	}
	if len(h.rec.sessions) != 1 {
		t.Fatalf("reset after time over must not record another session")
	}
}

func TestOpenGestureNeedsThreeTapsInWindow(t *testing.T) {
	h := newHarness(t)
	h.send(TitleTapped{}, TitleTapped{})
	h.sched.Advance(900 * time.Millisecond)
	h.send(TitleTapped{})
	if got := h.ctl.State().Gate.Stage; got != StageHidden {
		t.Fatalf("expected counter reset after the window, stage %s", got)
	}
	if got := h.ctl.State().Gestures.Open; got != 1 {
		t.Fatalf("expected fresh count of 1, got %d", got)
	}
	h.send(TitleTapped{}, TitleTapped{})
	if got := h.ctl.State().Gate.Stage; got != StagePasswordPrompt {
		t.Fatalf("expected password prompt, got %s", got)
	}
	if got := h.ctl.State().Gestures.Open; got != 0 {
		t.Fatalf("expected counter back to 0, got %d", got)
	}
}

func TestGestureWindowIsDebounced(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		h.send(TitleTapped{})
		h.sched.Advance(700 * time.Millisecond)
	}
	if got := h.ctl.State().Gate.Stage; got != StagePasswordPrompt {
		t.Fatalf("expected taps 700ms apart to open the gate, got %s", got)
	}
}

func TestTitleTapIgnoredWhileGateVisible(t *testing.T) {
	h := newHarness(t)
	h.send(TitleTapped{}, TitleTapped{}, TitleTapped{})
	rev := h.ctl.State().Gate.Prompts
	h.send(TitleTapped{}, TitleTapped{}, TitleTapped{})
	if got := h.ctl.State().Gate.Prompts; got != rev {
		t.Fatalf("title taps must not reopen a visible gate")
	}
}

func TestPasswordSubmission(t *testing.T) {
	h := newHarness(t)
	h.send(TitleTapped{}, TitleTapped{}, TitleTapped{})
	rev := h.disp.gate.InputRevision

	h.send(PasswordSubmitted{Input: "wrong"})
	if got := h.ctl.State().Gate.Stage; got != StagePasswordPrompt {
		t.Fatalf("expected to stay at the prompt, got %s", got)
	}
	if h.disp.gate.InputRevision == rev {
		t.Fatalf("expected the password field to be cleared")
	}
	if got := h.disp.count(NoticeAuthFailure); got != 1 {
		t.Fatalf("expected one rejection notice, got %d", got)
	}

	h.send(PasswordSubmitted{Input: "sh2025"})
	if got := h.ctl.State().Gate.Stage; got != StageControls {
		t.Fatalf("expected controls, got %s", got)
	}
}

func TestControlsRequireAuthentication(t *testing.T) {
	h := newHarness(t)
	h.send(TitleTapped{}, TitleTapped{}, TitleTapped{})
	h.send(StartPressed{}, ResetPressed{})
	if got := h.ctl.State().Timer.Status; got != StatusStopped {
		t.Fatalf("buttons must be inert behind the password, got %s", got)
	}
}

func TestCloseGateClearsCode(t *testing.T) {
	h := newHarness(t)
	h.digits("12")
	h.openControls(t)
	h.closeGate()
	st := h.ctl.State()
	if st.Code.Digits != "" {
		t.Fatalf("expected code cleared on close, got %q", st.Code.Digits)
	}
	if st.Timer.Status != StatusStopped {
		t.Fatalf("close without a queued action must not start, got %s", st.Timer.Status)
	}
	h.send(TitleTapped{}, TitleTapped{}, TitleTapped{})
	if got := h.ctl.State().Gate.Stage; got != StagePasswordPrompt {
		t.Fatalf("reopening must ask for the password again, got %s", got)
	}
}

func TestBackgroundTapIgnoredWhileHidden(t *testing.T) {
	h := newHarness(t)
	h.send(BackgroundTapped{})
	if got := h.ctl.State().Gestures.Close; got != 0 {
		t.Fatalf("expected no close count while hidden, got %d", got)
	}
}

func TestTimeLeftStaysInBounds(t *testing.T) {
	h := newHarness(t)
	ops := []func(){
		func() { h.send(StartPressed{}) },
		func() { h.send(StopPressed{}) },
		func() { h.send(ResetPressed{}) },
		func() { h.sched.Advance(17 * time.Minute) },
		func() { h.sched.Advance(250 * time.Millisecond) },
	}
	// Deterministic walk through every ordered pair of operations.
	for i := 0; i < len(ops); i++ {
		for j := 0; j < len(ops); j++ {
			for _, op := range []func(){ops[i], ops[j], ops[3], ops[4], ops[3]} {
				op()
				left := h.ctl.State().Timer.TimeLeft
				if left < 0 || left > DefaultTotalDuration {
					t.Fatalf("time left out of bounds: %v", left)
				}
				st := h.ctl.State()
				if (st.Timer.Status == StatusRunning) == st.Timer.StartEpoch.IsZero() {
					t.Fatalf("start epoch %v inconsistent with status %s", st.Timer.StartEpoch, st.Timer.Status)
				}
			}
		}
	}
}

func TestStepIgnoresStaleFire(t *testing.T) {
	settings := DefaultSettings()
	s := NewState(settings)
	now := testEpoch

	s, fx := Step(settings, nil, s, now, StartPressed{})
	var token uint64
	for _, e := range fx {
		if sc, ok := e.(Schedule); ok && sc.Slot == SlotTick {
			token = sc.Token
		}
	}
	if token == 0 {
		t.Fatalf("expected a tick to be scheduled, effects %+v", fx)
	}
	s, _ = Step(settings, nil, s, now, StopPressed{})

	later := now.Add(time.Minute)
	next, fx := Step(settings, nil, s, later, Fired{Slot: SlotTick, Token: token})
	if len(fx) != 0 {
		t.Fatalf("stale fire produced effects %+v", fx)
	}
	if next != s {
		t.Fatalf("stale fire changed state")
	}
}

func TestViewFormatting(t *testing.T) {
	settings := DefaultSettings()
	s := NewState(settings)
	s.Timer.TimeLeft = 45 * time.Minute
	s.HintsUsed = 1200
	v := TimerViewOf(settings, s, testEpoch)
	if v.Progress != 0.5 {
		t.Fatalf("expected progress 0.5, got %v", v.Progress)
	}
	if v.RingOffset != 141.5 {
		t.Fatalf("expected ring offset 141.5, got %v", v.RingOffset)
	}
	if v.HintCounter != "999/999" {
		t.Fatalf("expected capped counter, got %q", v.HintCounter)
	}
	if v.Remaining != "45:00" {
		t.Fatalf("expected 45:00, got %q", v.Remaining)
	}

	s.Code.Digits = "12"
	cv := CodeViewOf(settings, s)
	if len(cv.Boxes) != 4 || cv.Boxes[0] != "1" || cv.Boxes[1] != "2" || cv.Boxes[2] != "" {
		t.Fatalf("unexpected boxes %q", cv.Boxes)
	}
}

func TestKoreanLabels(t *testing.T) {
	settings := DefaultSettings()
	settings.Labels = LabelsFor("ko")
	for status, want := range map[Status]string{
		StatusRunning:     "실행 중",
		StatusQueuedStart: "시작됨",
		StatusReset:       "리셋됨",
		StatusStopped:     "중지됨",
	} {
		if got := StatusText(settings.Labels, status); got != want {
			t.Fatalf("status %s: expected %q, got %q", status, want, got)
		}
	}
}
