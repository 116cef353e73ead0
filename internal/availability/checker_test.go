package availability

import (
	"fmt"
	"testing"
	"time"

	"sarpras/pkg/model"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func date(s string) model.Date {
	d, _ := model.ParseDate(s)
	return d
}

func booking(id string, kind model.AssetKind, assetID, start, end string, status model.StatusPengajuan) model.Booking {
	b := model.Booking{ID: id, TanggalMulai: date(start), TanggalSelesai: date(end), StatusPengajuan: status}
	b.AssetLink.Set(kind, assetID)
	return b
}

func borrowings(bs ...model.Booking) Calendar {
	items := make([]model.Peminjaman, len(bs))
	for i, b := range bs {
		items[i] = model.Peminjaman{Booking: b}
	}
	return BorrowingCalendar(items)
}

func rentals(bs ...model.Booking) Calendar {
	items := make([]model.Penyewaan, len(bs))
	for i, b := range bs {
		items[i] = model.Penyewaan{Booking: b}
	}
	return RentalCalendar(items)
}

// checkerAt fixes "now" to 08:00 campus time on today.
func checkerAt(today string) *Checker {
	now := time.Date(day(today).Year(), day(today).Month(), day(today).Day(), 8, 0, 0, 0, jakarta)
	return NewChecker(jakarta, DefaultMinLeadDays, WithClock(func() time.Time { return now }))
}

func TestChecker_Scenarios(t *testing.T) {
	c := checkerAt("2024-06-01")
	approved := borrowings(booking("b1", model.KindRuanganUmum, "Room-A", "2024-06-10", "2024-06-15", model.PengajuanApproved))
	rejected := borrowings(booking("b1", model.KindRuanganUmum, "Room-A", "2024-06-10", "2024-06-15", model.PengajuanRejected))

	tests := []struct {
		name   string
		date   string
		asset  string
		borrow Calendar
		want   bool
	}{
		{"approved booking blocks its asset", "2024-06-12", "Room-A", approved, true},
		{"approved booking leaves other asset", "2024-06-12", "Room-B", approved, false},
		{"rejected booking never blocks", "2024-06-12", "Room-A", rejected, false},
		{"tomorrow fails lead time", "2024-06-02", "Room-Z", nil, true},
		{"today fails lead time", "2024-06-01", "Room-Z", nil, true},
		{"today plus two is allowed", "2024-06-03", "Room-Z", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.IsBlocked(day(tt.date), tt.asset, tt.borrow, nil)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestChecker_LeadTimeIgnoresCalendars(t *testing.T) {
	c := checkerAt("2024-06-01")
	for d := day("2024-05-01"); d.Before(day("2024-06-03")); d = d.AddDate(0, 0, 1) {
		v := c.Check(d, "any", nil, nil)
		if !v.Blocked || v.Reason != ReasonLeadTime {
			t.Fatalf("%s: expected lead-time block, got %+v", d.Format(time.DateOnly), v)
		}
	}
}

func TestChecker_RangeInclusiveAndPerAsset(t *testing.T) {
	c := checkerAt("2024-01-01")
	cal := rentals(booking("r1", model.KindAlat, "X", "2024-02-10", "2024-02-12", model.PengajuanPending))

	for d := day("2024-02-08"); !d.After(day("2024-02-14")); d = d.AddDate(0, 0, 1) {
		inside := !d.Before(day("2024-02-10")) && !d.After(day("2024-02-12"))
		v := c.Check(d, "X", nil, cal)
		if v.Blocked != inside {
			t.Errorf("%s X: expected blocked=%v, got %v", d.Format(time.DateOnly), inside, v.Blocked)
		}
		if inside && (v.Reason != ReasonRented || v.RecordID != "r1") {
			t.Errorf("expected rental r1 to block, got %+v", v)
		}
		if c.IsBlocked(d, "Y", nil, cal) {
			t.Errorf("%s Y: expected not blocked", d.Format(time.DateOnly))
		}
	}
}

func TestChecker_SharedTimeline(t *testing.T) {
	c := checkerAt("2024-01-01")
	b := borrowings(booking("b1", model.KindLab, "L1", "2024-03-01", "2024-03-01", model.PengajuanApproved))
	r := rentals(booking("r1", model.KindLab, "L1", "2024-03-05", "2024-03-06", model.PengajuanApproved))

	if v := c.Check(day("2024-03-01"), "L1", b, r); v.Reason != ReasonBorrowed {
		t.Errorf("expected borrowed, got %+v", v)
	}
	if v := c.Check(day("2024-03-06"), "L1", b, r); v.Reason != ReasonRented {
		t.Errorf("expected rented, got %+v", v)
	}
	if c.IsBlocked(day("2024-03-03"), "L1", b, r) {
		t.Error("expected gap day to be free")
	}
}

func TestChecker_MalformedDatesNeverBlock(t *testing.T) {
	c := checkerAt("2024-01-01")
	bad := booking("b1", model.KindAlat, "X", "not-a-date", "2024-02-12", model.PengajuanApproved)
	missing := model.Booking{ID: "b2", StatusPengajuan: model.PengajuanApproved, AssetLink: model.AssetLink{IDAlat: "X"}}

	if c.IsBlocked(day("2024-02-11"), "X", borrowings(bad, missing), nil) {
		t.Error("expected malformed records to be ignored")
	}
}

func TestChecker_AmbiguousLinkIgnored(t *testing.T) {
	c := checkerAt("2024-01-01")
	b := booking("b1", model.KindAlat, "X", "2024-02-10", "2024-02-12", model.PengajuanApproved)
	b.IDLab = "X"

	if c.IsBlocked(day("2024-02-11"), "X", borrowings(b), nil) {
		t.Error("expected record matching on two keys to be ignored")
	}
}

func TestChecker_BackendTimestampsUseCampusZone(t *testing.T) {
	c := checkerAt("2024-01-01")
	// Midnight WIB on 2024-02-10 as the backend stores it in UTC.
	b := booking("b1", model.KindAlat, "X", "2024-02-09T17:00:00Z", "2024-02-09T17:00:00Z", model.PengajuanApproved)

	if !c.IsBlocked(day("2024-02-10"), "X", borrowings(b), nil) {
		t.Error("expected 2024-02-10 to be blocked")
	}
	if c.IsBlocked(day("2024-02-09"), "X", borrowings(b), nil) {
		t.Error("expected 2024-02-09 to be free")
	}
}

func TestCalendar_Exclude(t *testing.T) {
	c := checkerAt("2024-01-01")
	cal := borrowings(booking("self", model.KindAlat, "X", "2024-02-10", "2024-02-12", model.PengajuanPending))

	if !c.IsBlocked(day("2024-02-11"), "X", cal, nil) {
		t.Fatal("expected block before exclusion")
	}
	if c.IsBlocked(day("2024-02-11"), "X", cal.Exclude("self"), nil) {
		t.Error("expected excluded record not to block")
	}
	if len(cal.Exclude("")) != 1 {
		t.Error("expected empty id to exclude nothing")
	}
}

func TestChecker_BlockedDaysAndRange(t *testing.T) {
	c := checkerAt("2024-02-01")
	cal := borrowings(booking("b1", model.KindAlat, "X", "2024-02-05", "2024-02-06", model.PengajuanApproved))

	days := c.BlockedDays("X", day("2024-02-01"), day("2024-02-07"), cal, nil)
	// 02-01 and 02-02 fail lead time, 02-05 and 02-06 are booked.
	if len(days) != 4 {
		t.Fatalf("expected 4 blocked days, got %d: %+v", len(days), days)
	}

	if _, blocked := c.RangeBlocked("X", day("2024-02-03"), day("2024-02-04"), cal, nil); blocked {
		t.Error("expected free range")
	}
	v, blocked := c.RangeBlocked("X", day("2024-02-03"), day("2024-02-10"), cal, nil)
	if !blocked || !v.Day.Equal(day("2024-02-05")) {
		t.Errorf("expected first conflict on 2024-02-05, got %+v", v)
	}
}

func TestChecker_RangeBlockedOverLongestRange(t *testing.T) {
	c := checkerAt("2024-02-01")
	start := day("2024-02-03")
	end := start.AddDate(0, 0, MaxRangeDays-1)

	var records []model.Booking
	for i := 0; i < 400; i++ {
		records = append(records, booking(fmt.Sprintf("other-%d", i), model.KindAlat, "Y", "2024-03-01", "2024-03-02", model.PengajuanApproved))
	}
	last := end.Format(time.DateOnly)
	records = append(records, booking("b-last", model.KindAlat, "X", last, last, model.PengajuanPending))
	cal := borrowings(records...)

	v, blocked := c.RangeBlocked("X", start, end, cal, nil)
	if !blocked || !v.Day.Equal(end) || v.RecordID != "b-last" {
		t.Errorf("expected conflict on the last day %s, got %+v", last, v)
	}
}
