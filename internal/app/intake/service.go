package intake

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/badoux/checkmail"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heptiolabs/healthcheck"

	"github.com/phoenixix/medbot/internal/pkg/bot"
	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/messages"
	"github.com/phoenixix/medbot/internal/pkg/metrics"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"github.com/phoenixix/medbot/internal/pkg/postgres"
	"github.com/phoenixix/medbot/internal/pkg/status"
)

type serviceMetric struct {
	submitResponseDur prometheus.ObserverVec
	submitRequestSize prometheus.ObserverVec
}

// RequestSaver saves the submission document
type RequestSaver interface {
	Save(data *persistence.Request) error
}

// PatientSaver finds or creates the patient for a submission
type PatientSaver interface {
	FindOrCreate(phone string) (*persistence.Patient, error)
}

// CallSaver creates the call row
type CallSaver interface {
	Save(patientID int64, audioURL string, callStatus string, externalID string) (*persistence.Call, error)
}

// CallStatusUpdater mutates the call status, used for compensation
type CallStatusUpdater interface {
	Update(callID int64, newStatus string) (postgres.UpdateResult, error)
}

// ServiceData keeps data required for service work
type ServiceData struct {
	RequestSaver  RequestSaver
	PatientSaver  PatientSaver
	CallSaver     CallSaver
	StatusUpdater CallStatusUpdater
	MessageSender messages.Sender

	StaticDir string
	Port      int
	health    healthcheck.Handler
	metrics   serviceMetric
}

type submission struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Symptoms string `json:"symptoms"`
	Message  string `json:"message,omitempty"`
}

// SubmitResult - post method response in JSON
type SubmitResult struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	CallID      string `json:"call_id"`
	PatientName string `json:"patient_name"`
	Phone       string `json:"phone"`
}

type carouselImage struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

var carouselImages = []carouselImage{
	{ID: 1, Title: "Specialized Medicine",
		Description: "Expert patient and doctor care",
		URL:         "/images/slide1_specialized_medicine.jpg"},
	{ID: 2, Title: "Your Health Is Our Priority",
		Description: "Comprehensive healthcare for you and your family",
		URL:         "/images/slide2_health_priority.jpg"},
	{ID: 3, Title: "Exceptional Service",
		Description: "Top quality medical consultation",
		URL:         "/images/slide3_exceptional_service.jpg"},
}

// StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

// NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	initMetrics(data)
	router := mux.NewRouter().StrictSlash(true)
	sh := promhttp.InstrumentHandlerDuration(data.metrics.submitResponseDur,
		promhttp.InstrumentHandlerRequestSize(data.metrics.submitRequestSize, submitHandler{data: data}))
	router.Methods("GET").Path("/").Handler(rootHandler{})
	router.Methods("GET").Path("/api/carousel-images").Handler(carouselHandler{})
	router.Methods("POST").Path("/api/submit").Handler(sh)
	router.Methods("GET").Path("/health").Handler(healthHandler{})
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	if data.health != nil {
		router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
		router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	}
	mountStatic(router, data.StaticDir)
	return router
}

func initMetrics(data *ServiceData) {
	if data.metrics.submitResponseDur != nil {
		return
	}
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "submit_request_durations_seconds",
			Help: "Submit request latency distributions.",
		}, nil)
	size := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "submit_request_size_bytes",
			Help:    "Submit request size distributions.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 5),
		}, nil)
	cmdapp.LogIf(metrics.Register(dur))
	cmdapp.LogIf(metrics.Register(size))
	data.metrics.submitResponseDur = dur
	data.metrics.submitRequestSize = size
}

// mountStatic serves images and other static content when the directory exists
func mountStatic(router *mux.Router, dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		cmdapp.Log.Warnf("Static dir '%s' not found, static serving disabled", dir)
		return
	}
	router.PathPrefix("/images/").Handler(http.StripPrefix("/images/",
		http.FileServer(http.Dir(filepath.Join(dir, "images")))))
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/",
		http.FileServer(http.Dir(dir))))
}

type rootHandler struct {
}

func (h rootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"message": "PHOENIXIX Medical Bot API"})
}

type carouselHandler struct {
}

func (h carouselHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]carouselImage{"images": carouselImages})
}

type healthHandler struct {
}

func (h healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

type submitHandler struct {
	data *ServiceData
}

func (h submitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Submission from %s", r.Host)

	var sub submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "Can't parse submission", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "can't parse submission"))
		return
	}
	if sub.Name == "" || sub.Phone == "" {
		http.Error(w, "Name and phone are required", http.StatusBadRequest)
		cmdapp.Log.Errorf("No name or phone")
		return
	}
	if sub.Email != "" {
		if err := checkmail.ValidateFormat(sub.Email); err != nil {
			http.Error(w, "Wrong email", http.StatusBadRequest)
			cmdapp.Log.Errorf("Wrong email")
			return
		}
	}

	id := uuid.New().String()
	err := h.data.RequestSaver.Save(&persistence.Request{ID: id, Name: sub.Name, Phone: sub.Phone,
		Email: sub.Email, Symptoms: sub.Symptoms, Message: sub.Message})
	if err != nil {
		http.Error(w, "Can not process submission", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	patient, err := h.data.PatientSaver.FindOrCreate(sub.Phone)
	if err != nil {
		http.Error(w, "Can not process submission", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	call, err := h.data.CallSaver.Save(patient.PatientID, "", status.Name(status.Pending), id)
	if err != nil {
		http.Error(w, "Can not process submission", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	msg := messages.NewCallMessage(id, call.CallID,
		[]messages.Tag{messages.NewTag(messages.TagTimestamp, strconv.FormatInt(time.Now().Unix(), 10))})
	msg.Name = sub.Name
	msg.Phone = sub.Phone
	msg.Email = sub.Email
	msg.Symptoms = sub.Symptoms
	msg.Message = sub.Message

	if err := h.data.MessageSender.Send(msg, messages.DispatchCall, ""); err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "can't send dispatch message"))
		// the call row exists but nothing will pick it up, mark it failed
		if _, cErr := h.data.StatusUpdater.Update(call.CallID, status.Name(status.Failed)); cErr != nil {
			cmdapp.Log.Error(errors.Wrap(cErr, "can't compensate call"))
		}
		http.Error(w, "Can not process submission", http.StatusInternalServerError)
		return
	}

	writeJSON(w, SubmitResult{Status: "success",
		Message:     "Form submitted successfully. The medical bot will call you shortly.",
		CallID:      bot.Token(sub.Name, sub.Phone),
		PatientName: sub.Name,
		Phone:       sub.Phone})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	if err := encoder.Encode(data); err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
	}
}
