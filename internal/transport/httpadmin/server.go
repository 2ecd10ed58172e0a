package httpadmin

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/finledger/dbrouter/pkg/dbrouter"
)

type adminServer struct {
	listenPort  int
	router      dbrouter.Router
	promHandler http.Handler
	wg          sync.WaitGroup
	listener    net.Listener
}

type healthResponse struct {
	Status          string `json:"status"`
	Primary         bool   `json:"primary"`
	HealthyReplicas int    `json:"healthyReplicas"`
	TotalReplicas   int    `json:"totalReplicas"`
}

func New(router dbrouter.Router, listenPort int,
	promHandler http.Handler) dbrouter.Server {

	return &adminServer{
		router:      router,
		listenPort:  listenPort,
		promHandler: promHandler,
	}
}

func (s *adminServer) Start() error {
	var err error

	s.listener, err = net.Listen("tcp", fmt.Sprintf(":%d", s.listenPort))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.Handle("/metrics/prometheus", s.promHandler)
	mux.HandleFunc("/health-check", s.handleForceHealthCheck)
	mux.HandleFunc("/health", s.handleHealth)

	started := make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		close(started)

		if err := http.Serve(s.listener, mux); err != nil {
			logrus.WithError(err).Info("admin server stopped")
		}
	}()
	<-started

	return nil
}

func (s *adminServer) Close() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *adminServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := s.router.Status(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, status)
}

func (s *adminServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := s.router.Metrics(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, snapshot)
}

func (s *adminServer) handleForceHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := s.router.ForceHealthCheck(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, status)
}

// handleHealth is the public liveness probe: healthy iff the primary is
// reachable and, when replicas are configured, at least one is healthy.
func (s *adminServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := s.router.Status(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	healthyReplicas := 0
	for _, replica := range status.Replicas {
		if replica.Healthy {
			healthyReplicas++
		}
	}

	response := healthResponse{
		Primary:         status.Primary.Connected,
		HealthyReplicas: healthyReplicas,
		TotalReplicas:   len(status.Replicas),
	}

	healthy := status.Primary.Connected &&
		(len(status.Replicas) == 0 || healthyReplicas > 0)

	if healthy {
		response.Status = "healthy"
		s.writeJSON(w, http.StatusOK, response)
	} else {
		response.Status = "unhealthy"
		s.writeJSON(w, http.StatusServiceUnavailable, response)
	}
}

func (s *adminServer) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Info("unexpected error while writing response")
	}
}
