package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"parking_reservation/internal/api"
	"parking_reservation/internal/api/handler"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/config"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/iot"
	"parking_reservation/internal/repository"
	"parking_reservation/internal/repository/badgerdb"
	"parking_reservation/internal/repository/postgresql"
	"parking_reservation/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsgo_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	app := &cli.App{
		Name:  "estacionamento",
		Usage: "núcleo de reservas de vagas",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "log em nível debug"},
		},
		Before: func(c *cli.Context) error {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if c.Bool("debug") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "sobe a API HTTP e o consumidor de eventos da cancela",
				Action: serve,
			},
			{
				Name:  "report",
				Usage: "exporta o relatório de reservas em CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date-from", Usage: "dd/MM/aaaa"},
					&cli.StringFlag{Name: "date-to", Usage: "dd/MM/aaaa"},
					&cli.StringFlag{Name: "status"},
					&cli.StringFlag{Name: "block"},
					&cli.StringFlag{Name: "plate"},
					&cli.StringFlag{Name: "client"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "arquivo de saída (padrão: stdout)"},
				},
				Action: report,
			},
			{
				Name:  "seed-admin",
				Usage: "cria um usuário admin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Value: "admin"},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: seedAdmin,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("erro fatal")
	}
}

// stores reúne os repositórios do backend escolhido em STORE_DRIVER.
type stores struct {
	users        repository.UserRepository
	clients      repository.ClientRepository
	vehicles     repository.VehicleRepository
	blocks       repository.BlockRepository
	spots        repository.SpotRepository
	reservations repository.ReservationRepository
	close        func() error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgresql.NewDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.DBDriver).Str("host", cfg.DBHost).Msg("conectado ao postgres")
		return pgStores(db), nil
	default:
		db, err := badgerdb.Open(badgerdb.Options{Dir: cfg.BadgerDir, InMemory: cfg.BadgerInMemory})
		if err != nil {
			return nil, err
		}
		log.Info().Str("dir", cfg.BadgerDir).Bool("in_memory", cfg.BadgerInMemory).Msg("banco badger aberto")
		return badgerStores(db), nil
	}
}

func pgStores(db *sql.DB) *stores {
	return &stores{
		users:        postgresql.NewPgUserRepository(db),
		clients:      postgresql.NewPgClientRepository(db),
		vehicles:     postgresql.NewPgVehicleRepository(db),
		blocks:       postgresql.NewPgBlockRepository(db),
		spots:        postgresql.NewPgSpotRepository(db),
		reservations: postgresql.NewPgReservationRepository(db),
		close:        db.Close,
	}
}

func badgerStores(db *badger.DB) *stores {
	return &stores{
		users:        badgerdb.NewUserRepository(db),
		clients:      badgerdb.NewClientRepository(db),
		vehicles:     badgerdb.NewVehicleRepository(db),
		blocks:       badgerdb.NewBlockRepository(db),
		spots:        badgerdb.NewSpotRepository(db),
		reservations: badgerdb.NewReservationRepository(db),
		close:        db.Close,
	}
}

type core struct {
	catalog   *service.CatalogService
	directory *service.DirectoryService
	engine    *service.ReservationService
	maps      *service.MapService
	reports   *service.ReportService
}

func newCore(st *stores, cfg *config.Config) *core {
	catalog := service.NewCatalogService(st.blocks, st.spots, cfg.MaxBlockCapacity)
	directory := service.NewDirectoryService(st.clients, st.vehicles)
	engine := service.NewReservationService(st.reservations, directory, catalog, cfg.Tariff, domain.SystemClock{})
	maps := service.NewMapService(catalog, engine)
	return &core{
		catalog:   catalog,
		directory: directory,
		engine:    engine,
		maps:      maps,
		reports:   service.NewReportService(engine),
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	cr := newCore(st, cfg)

	wsManager := handler.NewWebSocketManager(log.Logger)
	cr.engine.SetNotifier(wsManager)

	svc := api.Services{
		Auth:      service.NewAuthService(st.users, cfg.JWTSecret, cfg.JWTExpirationHours),
		Users:     service.NewUserService(st.users),
		Directory: cr.directory,
		Catalog:   cr.catalog,
		Engine:    cr.engine,
		Maps:      cr.maps,
		Reports:   cr.reports,
	}

	var consumer *iot.SQSConsumer
	needsAWS := cfg.SQSGateQueueURL != "" || cfg.PanelTopic != "" || cfg.LPREnabled
	if needsAWS {
		awsSDKCfg, err := awsgo_config.LoadDefaultConfig(ctx, awsgo_config.WithRegion(cfg.AWSRegion))
		if err != nil {
			return fmt.Errorf("não foi possível carregar a configuração AWS: %w", err)
		}
		log.Info().Str("region", cfg.AWSRegion).Msg("configuração AWS carregada")

		if cfg.LPREnabled {
			svc.LPR = service.NewLPRService(rekognition.NewFromConfig(awsSDKCfg), cr.directory)
		}

		var panel *service.PanelService
		if cfg.PanelTopic != "" {
			iotClient := iotdataplane.NewFromConfig(awsSDKCfg, func(o *iotdataplane.Options) {
				if cfg.IoTEndpoint != "" {
					endpoint := cfg.IoTEndpoint
					if !strings.HasPrefix(endpoint, "https://") && !strings.HasPrefix(endpoint, "http://") {
						endpoint = "https://" + endpoint
					}
					o.BaseEndpoint = aws.String(endpoint)
				}
			})
			panel = service.NewPanelService(iotClient, cfg.PanelTopic, cr.maps)
		}

		if cfg.SQSGateQueueURL != "" {
			gate := service.NewGateService(cr.engine, panel)
			consumer = iot.NewSQSConsumer(sqs.NewFromConfig(awsSDKCfg), cfg.SQSGateQueueURL, gate, log.Logger)
		}
	}
	if consumer == nil {
		log.Warn().Msg("SQS_GATE_QUEUE_URL não configurada; eventos da cancela desativados")
	}

	router := api.SetupRouter(svc, wsManager, middleware.NewRateLimiter(cfg.LoginRatePerSecond, cfg.LoginBurst), log.Logger)
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return wsManager.Start(gctx) })
	if consumer != nil {
		g.Go(func() error { return consumer.Start(gctx) })
	}
	g.Go(func() error {
		log.Info().Str("port", cfg.ServerPort).Msg("servidor HTTP iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("encerrando servidor")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("servidor encerrado")
	return nil
}

func report(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := openStores(c.Context, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	result, err := newCore(st, cfg).reports.Query(c.Context, domain.ReportFilter{
		DateFrom:     c.String("date-from"),
		DateTo:       c.String("date-to"),
		Status:       c.String("status"),
		BlockName:    c.String("block"),
		VehiclePlate: c.String("plate"),
		ClientName:   c.String("client"),
	})
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := csv.NewWriter(out)
	if err := w.Write(result.Header()); err != nil {
		return err
	}
	if err := w.WriteAll(result.Records()); err != nil {
		return err
	}
	log.Info().Int("rows", result.Count).Str("total", result.FeeSumDisplay).Msg("relatório exportado")
	return nil
}

func seedAdmin(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := openStores(c.Context, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	user, err := service.NewUserService(st.users).Create(c.Context, domain.UserDTO{
		Username: c.String("username"),
		Password: c.String("password"),
		Role:     string(domain.RoleAdmin),
	})
	if errors.Is(err, domain.ErrDuplicateName) {
		log.Warn().Str("username", c.String("username")).Msg("usuário já existe")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("id", user.ID).Str("username", user.Username).Msg("admin criado")
	return nil
}
