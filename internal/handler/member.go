package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kamerdata/kamerarchief/internal/model"
	"github.com/kamerdata/kamerarchief/internal/store"
)

// MemberHandler serves the Tweede Kamer membership endpoints.
type MemberHandler struct {
	memberStore      *store.MemberStore
	appointmentStore *store.AppointmentStore
	logger           *slog.Logger
}

func NewMemberHandler(ms *store.MemberStore, as *store.AppointmentStore, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{memberStore: ms, appointmentStore: as, logger: logger}
}

// List handles GET /api/members. Supported query parameters: party, q
// (substring of full_name), current=true, and on=YYYY-MM-DD for "who served
// on this day".
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.MemberFilter{
		Party:   q.Get("party"),
		Query:   q.Get("q"),
		Current: q.Get("current") == "true",
	}
	if on := q.Get("on"); on != "" {
		day, err := time.Parse("2006-01-02", on)
		if err != nil {
			writeError(w, http.StatusBadRequest, "on must be a YYYY-MM-DD date")
			return
		}
		filter.On = &day
	}

	terms, err := h.memberStore.List(filter)
	if err != nil {
		h.logger.Error("list member terms", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if terms == nil {
		terms = []model.MemberTerm{}
	}
	writeJSON(w, http.StatusOK, terms)
}

// Parties handles GET /api/members/parties: term counts per party.
func (h *MemberHandler) Parties(w http.ResponseWriter, r *http.Request) {
	tallies, err := h.memberStore.PartyTallies()
	if err != nil {
		h.logger.Error("party tallies", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to tally parties")
		return
	}
	if tallies == nil {
		tallies = []model.PartyTally{}
	}
	writeJSON(w, http.StatusOK, tallies)
}

// Person handles GET /api/persons/{last_name}: every Kamer term and cabinet
// appointment recorded under that surname. Surnames are how the two files
// join; the match is case-insensitive.
func (h *MemberHandler) Person(w http.ResponseWriter, r *http.Request) {
	lastName := r.PathValue("last_name")
	if lastName == "" {
		writeError(w, http.StatusBadRequest, "last_name is required")
		return
	}

	terms, err := h.memberStore.ByLastName(lastName)
	if err != nil {
		h.logger.Error("person terms", "last_name", lastName, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load person")
		return
	}
	apps, err := h.appointmentStore.ByLastName(lastName)
	if err != nil {
		h.logger.Error("person appointments", "last_name", lastName, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load person")
		return
	}
	if len(terms) == 0 && len(apps) == 0 {
		writeError(w, http.StatusNotFound, "no person with that last name")
		return
	}
	if terms == nil {
		terms = []model.MemberTerm{}
	}
	if apps == nil {
		apps = []model.Appointment{}
	}

	writeJSON(w, http.StatusOK, model.PersonHistory{
		LastName:     lastName,
		Terms:        terms,
		Appointments: apps,
	})
}
