package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"comanda/internal/config"
	"comanda/internal/connections/database"
	"comanda/internal/connections/rabbitmq"
	"comanda/internal/fanout"
	"comanda/internal/handlers"
	"comanda/internal/httpx"
	"comanda/internal/kds"
	"comanda/internal/logger"
	"comanda/internal/printing"
	"comanda/internal/repository"
	"comanda/internal/service"
)

func main() {
	mode := flag.String("mode", "", "api | dashboard | kds")
	cfgPath := flag.String("config", "", "path to YAML config (default: config.yaml, deploy/config.example.yaml)")
	port := flag.Int("port", 0, "api: http port override")
	tenant := flag.String("tenant", "", "dashboard/kds: tenant id")
	station := flag.String("station", "", "kds: station id")
	mute := flag.Bool("mute", false, "dashboard/kds: silence the new-order alert")
	flag.Parse()

	lg := logger.New("bootstrap")

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "no config file found; pass -config")
			os.Exit(2)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	rmq, err := rabbitmq.Dial(cfg.Rabbit)
	if err != nil {
		lg.Error("rabbitmq_connect_failed", err, nil)
		os.Exit(1)
	}
	defer rmq.Close()

	broker, err := fanout.NewAMQP(rmq, logger.New("fanout"))
	if err != nil {
		lg.Error("fanout_setup_failed", err, nil)
		os.Exit(1)
	}

	orderRepo := repository.NewOrdersPG(db, logger.New("orders-repo"))

	switch *mode {
	case "api":
		if *port != 0 {
			cfg.HTTP.Port = *port
		}
		lg.Info("service_started", map[string]any{"service": "api", "port": cfg.HTTP.Port})
		if err := runAPI(ctx, cfg, db, broker, orderRepo); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "dashboard":
		t := mustUUID(*tenant, "--tenant")
		slg := logger.New("dashboard")
		slg.Info("service_started", map[string]any{"service": "dashboard", "tenant": t.String()})
		d := kds.NewDashboard(t, orderRepo, broker, kds.NewLogSink(slg), *mute, slg)
		if err := d.Run(ctx); err != nil {
			slg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "kds":
		t := mustUUID(*tenant, "--tenant")
		st := mustUUID(*station, "--station")
		slg := logger.New("kds")
		slg.Info("service_started", map[string]any{"service": "kds", "tenant": t.String(), "station": st.String()})
		term := kds.NewTerminal(t, st, orderRepo, broker, kds.NewLogSink(slg), *mute, slg)
		if err := term.Run(ctx); err != nil {
			slg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api | dashboard | kds")
		os.Exit(2)
	}
}

func runAPI(ctx context.Context, cfg config.App, db *database.Conn, broker fanout.Broker, orderRepo repository.Orders) error {
	slg := logger.New("api")
	stationRepo := repository.NewStationsPG(db, logger.New("stations-repo"))

	orders := service.NewOrderService(orderRepo, broker, slg)
	stations := service.NewStationService(stationRepo, slg)

	queue := printing.NewQueue(
		printing.TextRenderer{},
		printing.StdoutDispatcher{},
		time.Duration(cfg.Print.JobDelayMS)*time.Millisecond,
		logger.New("print-queue"),
	)
	tickets := service.NewTicketService(orderRepo, orders, queue, printing.TicketConfig{ShowPrices: true}, slg)

	h := handlers.New(orders, stations, tickets, slg)
	srv := httpx.New(":"+strconv.Itoa(cfg.HTTP.Port), h.Router())
	err := srv.Run(ctx)
	queue.Wait()
	return err
}

func mustUUID(s, flagName string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s must be a valid uuid\n", flagName)
		os.Exit(2)
	}
	return id
}
