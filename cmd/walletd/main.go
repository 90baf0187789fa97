package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rollwallet/config"
	"rollwallet/node"
	"rollwallet/observability/logging"
	"rollwallet/observability/metrics"
	"rollwallet/rollups"
	"rollwallet/storage"
	"rollwallet/wallet"
)

func main() {
	configFile := flag.String("config", "./walletd.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := logging.Setup("walletd", cfg.Env, cfg.LogFile)

	book, err := cfg.PortalBook()
	if err != nil {
		logger.Error("Failed to resolve portal addresses", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	app := wallet.New(wallet.WithLogger(logger), wallet.WithPortals(book))
	snapshots := storage.NewSnapshotStore(db)
	restored, err := snapshots.Load(app)
	if err != nil {
		logger.Error("Failed to restore snapshot", slog.Any("error", err))
		os.Exit(1)
	}
	if restored {
		logger.Info("Restored ledger snapshot", slog.Int("accounts", len(app.Dump())))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := &walletService{
		app:       app,
		snapshots: snapshots,
		portals:   book,
		metrics:   metrics.Wallet(),
		logger:    logger,
	}
	client := node.NewClient(cfg.RollupURL, node.WithLogger(logger))
	service.client = client

	server := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: service.router(),
	}
	go func() {
		logger.Info("HTTP server listening", slog.String("address", cfg.ListenAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", slog.Any("error", err))
			stop()
		}
	}()

	logger.Info("Starting rollup input loop", slog.String("rollup_url", cfg.RollupURL))
	err = client.Run(ctx, service.handleAdvance, service.handleInspect)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Input loop stopped", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
}

// walletService serializes ledger access between the input loop and the
// HTTP read endpoints.
type walletService struct {
	mu        sync.RWMutex
	app       *wallet.App
	snapshots *storage.SnapshotStore
	portals   rollups.PortalBook
	client    *node.Client
	metrics   *metrics.WalletMetrics
	logger    *slog.Logger
}

// assetFor maps a portal sender to the asset class it deposits.
func (s *walletService) assetFor(msgSender string) string {
	if !common.IsHexAddress(msgSender) {
		return ""
	}
	switch common.HexToAddress(msgSender) {
	case s.portals.EtherPortal:
		return "ether"
	case s.portals.ERC20Portal:
		return "erc20"
	case s.portals.ERC721Portal:
		return "erc721"
	case s.portals.ERC1155SinglePortal:
		return "erc1155_single"
	case s.portals.ERC1155BatchPortal:
		return "erc1155_batch"
	}
	return ""
}

func (s *walletService) handleAdvance(ctx context.Context, req *rollups.AdvanceRequest) rollups.FinishStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.app.Handler(ctx, req)
	s.metrics.ObserveInput(string(status))
	if status != rollups.Accept {
		return status
	}

	if asset := s.assetFor(req.Metadata.MsgSender); asset != "" {
		s.metrics.ObserveDeposit(asset)
	}
	if err := s.snapshots.Save(s.app); err != nil {
		s.logger.Error("Failed to persist snapshot", slog.Any("error", err))
	} else {
		s.metrics.IncSnapshotSaves()
	}
	s.metrics.SetAccountsTracked(len(s.app.Dump()))
	return status
}

// inspectQuery is the payload accepted on the inspect path: an account
// address plus optional token filters, JSON-encoded.
type inspectQuery struct {
	Address string `json:"address"`
	Token   string `json:"token,omitempty"`
}

type balanceReport struct {
	Address string `json:"address"`
	Ether   string `json:"ether"`
	Token   string `json:"token,omitempty"`
	ERC20   string `json:"erc20,omitempty"`
}

func (s *walletService) handleInspect(ctx context.Context, req *rollups.InspectRequest) rollups.FinishStatus {
	raw, err := hexutil.Decode(req.Payload)
	if err != nil {
		s.logger.Error("Rejecting malformed inspect payload", slog.Any("error", err))
		return rollups.Reject
	}
	var query inspectQuery
	if err := json.Unmarshal(raw, &query); err != nil {
		s.logger.Error("Rejecting malformed inspect query", slog.Any("error", err))
		return rollups.Reject
	}

	report, err := json.Marshal(s.balances(query))
	if err != nil {
		s.logger.Error("Failed to encode inspect report", slog.Any("error", err))
		return rollups.Reject
	}
	if err := s.client.SendReport(ctx, &rollups.Report{Payload: report}); err != nil {
		s.logger.Error("Failed to send inspect report", slog.Any("error", err))
		return rollups.Reject
	}
	return rollups.Accept
}

func (s *walletService) balances(query inspectQuery) balanceReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := balanceReport{
		Address: wallet.NormalizeAddress(query.Address),
		Ether:   s.app.BalanceOfEther(query.Address).String(),
	}
	if common.IsHexAddress(query.Token) {
		token := common.HexToAddress(query.Token)
		report.Token = token.Hex()
		report.ERC20 = s.app.BalanceOfERC20(token, query.Address).String()
	}
	return report
}

func (s *walletService) router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/v1/accounts/{address}/balance", func(w http.ResponseWriter, r *http.Request) {
		query := inspectQuery{
			Address: chi.URLParam(r, "address"),
			Token:   r.URL.Query().Get("token"),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.balances(query)); err != nil {
			s.logger.Error("Failed to encode balance response", slog.Any("error", err))
		}
	})

	return r
}
