package availability

import "sarpras/pkg/model"

// Record is a booking as the checker sees it. model.Booking satisfies it.
type Record interface {
	RecordID() string
	Link() model.AssetLink
	Status() model.StatusPengajuan
	Range() (start, end model.Date)
}

// Calendar is the set of loaded records of one booking kind.
type Calendar []Record

func BorrowingCalendar(items []model.Peminjaman) Calendar {
	cal := make(Calendar, 0, len(items))
	for i := range items {
		cal = append(cal, items[i].Booking)
	}
	return cal
}

func RentalCalendar(items []model.Penyewaan) Calendar {
	cal := make(Calendar, 0, len(items))
	for i := range items {
		cal = append(cal, items[i].Booking)
	}
	return cal
}

// Exclude drops the record with the given id. Edit flows use it so a booking
// never conflicts with itself.
func (c Calendar) Exclude(id string) Calendar {
	if id == "" {
		return c
	}
	out := make(Calendar, 0, len(c))
	for _, r := range c {
		if r.RecordID() != id {
			out = append(out, r)
		}
	}
	return out
}
