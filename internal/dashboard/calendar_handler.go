package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type WeekResponse struct {
	Range calendar.Range  `json:"range"`
	Days  []calendar.Date `json:"days"`
	Prev  calendar.Date   `json:"prev"`
	Next  calendar.Date   `json:"next"`
}

type MonthResponse struct {
	Year  int               `json:"year"`
	Month int               `json:"month"`
	Range calendar.Range    `json:"range"`
	Weeks [][]calendar.Date `json:"weeks"`
}

// CalendarHandler serves the date math of the dashboard calendar. It needs no
// session.
type CalendarHandler struct {
	today func() calendar.Date
}

func NewCalendarHandler() *CalendarHandler {
	return &CalendarHandler{
		today: calendar.Today,
	}
}

func (handler *CalendarHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/calendar/week", handler.HandleWeek).Methods("GET", "OPTIONS").Name("calendar-week")
	r.HandleFunc("/calendar/month", handler.HandleMonth).Methods("GET", "OPTIONS").Name("calendar-month")
}

// HandleWeek answers the Monday..Sunday week of ?date=YYYY-MM-DD, today by default.
func (handler *CalendarHandler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.week")
	defer span.End()

	day := handler.today()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		var err error
		day, err = calendar.ParseDate(dateStr)
		if err != nil {
			http.Error(w, "error, invalid date", http.StatusBadRequest)
			return
		}
	}

	week := calendar.WeekRange(day)
	writeCalendar(w, WeekResponse{
		Range: week,
		Days:  week.Days(),
		Prev:  week.From.AddDays(-7),
		Next:  week.From.AddDays(7),
	})
}

// HandleMonth answers the month grid of ?year=&month=, the current month by default.
func (handler *CalendarHandler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.month")
	defer span.End()

	today := handler.today()
	year, month := today.Year(), today.Month()

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 1 || y > 9999 {
			http.Error(w, "error, invalid year", http.StatusBadRequest)
			return
		}
		year = y
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil || m < 1 || m > 12 {
			http.Error(w, "error, invalid month", http.StatusBadRequest)
			return
		}
		month = time.Month(m)
	}

	writeCalendar(w, MonthResponse{
		Year:  year,
		Month: int(month),
		Range: calendar.MonthRange(year, month),
		Weeks: calendar.MonthGrid(year, month),
	})
}

func writeCalendar(w http.ResponseWriter, resp any) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal calendar response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
