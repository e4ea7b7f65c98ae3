package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hydroclim/drought-cli/internal/dataset"
	"github.com/hydroclim/drought-cli/internal/forest"
)

var (
	serveCSV   string
	serveTrees int
	serveSeed  int64
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve ad-hoc drought predictions over HTTP",
	Long: `Trains a forest once at startup, then answers prediction
requests:

  POST /predict {"P":12.1,"PET":140,...}  -> {"label":1,"probability":0.91}
  GET  /health                            -> {"status":"ok"}`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		csvPath := serveCSV
		if csvPath == "" {
			csvPath = cfg.Data.CSVPath
		}
		if csvPath == "" {
			return eris.New("serve: --csv is required (or set data.csv_path)")
		}

		ds, err := dataset.Load(csvPath, cfg.Data.TargetColumn)
		if err != nil {
			return eris.Wrap(err, "serve")
		}

		clf := forest.New(
			forest.WithTrees(serveTrees),
			forest.WithSeed(serveSeed),
			forest.WithThreshold(cfg.Model.Threshold),
		)
		if err := clf.Fit(ds.Matrix(), ds.Labels()); err != nil {
			return eris.Wrap(err, "serve: fit")
		}
		zap.L().Info("serve: model trained",
			zap.Int("rows", ds.Len()),
			zap.Int("trees", serveTrees),
		)

		limiter := rate.NewLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst)

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			handlePredict(clf, w, r)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			gracefulShutdown(srv)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownGrace bounds how long in-flight requests may drain.
const shutdownGrace = 10 * time.Second

// gracefulShutdown drains in-flight requests on a fresh context; the
// signal context is already cancelled by the time shutdown starts.
func gracefulShutdown(srv *http.Server) {
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

// handlePredict decodes one observation keyed by predictor name and
// answers with label and class-1 probability.
func handlePredict(clf *forest.RandomForest, w http.ResponseWriter, r *http.Request) {
	var req map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	features := make([]float64, len(dataset.FeatureNames))
	for i, name := range dataset.FeatureNames {
		v, ok := req[name]
		if !ok {
			http.Error(w, fmt.Sprintf(`{"error":"missing predictor %q"}`, name), http.StatusBadRequest)
			return
		}
		features[i] = v
	}

	X := [][]float64{features}
	resp := struct {
		Label       int     `json:"label"`
		Probability float64 `json:"probability"`
	}{
		Label:       clf.Predict(X)[0],
		Probability: clf.PredictProba(X)[0],
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func init() {
	serveCmd.Flags().StringVar(&serveCSV, "csv", "", "path to climate CSV file")
	serveCmd.Flags().IntVar(&serveTrees, "trees", 100, "number of trees in the ensemble")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 42, "bootstrap seed")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
