package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lootvault/internal/achievement"
	"lootvault/internal/config"
	"lootvault/internal/daily"
	"lootvault/internal/engine"
	"lootvault/internal/reward"
	"lootvault/internal/server"
	"lootvault/internal/shop"
)

func main() {
	_ = godotenv.Load()

	logger := log.Default()

	srvCfg, err := config.LoadServer()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	balance := config.FromEnv()

	catalog, err := reward.LoadCatalog(srvCfg.CatalogPath)
	if err != nil {
		logger.Printf("reward catalog unavailable (%v), starting with empty catalog", err)
		catalog = reward.NewCatalog(nil)
	}

	var dailyTable []daily.Entry
	if table, err := daily.LoadTable(srvCfg.DailyTablePath); err != nil {
		logger.Printf("daily table unavailable (%v), using default cycle", err)
	} else {
		dailyTable = table
	}

	var achievementDefs []achievement.Def
	if defs, err := achievement.LoadDefs(srvCfg.AchievementsPath); err != nil {
		logger.Printf("achievement defs unavailable (%v), starting with none", err)
	} else {
		achievementDefs = defs
	}

	shopCatalog, err := shop.LoadCatalog(srvCfg.ShopPath)
	if err != nil {
		logger.Printf("shop catalog unavailable (%v), starting with empty shop", err)
		shopCatalog = shop.NewCatalog(nil)
	}

	eng, err := engine.New(engine.Options{
		DataDir:         srvCfg.DataDir,
		Balance:         balance,
		Catalog:         catalog,
		DailyTable:      dailyTable,
		AchievementDefs: achievementDefs,
		ShopCatalog:     shopCatalog,
		Logger:          logger,
	})
	if err != nil {
		logger.Fatalf("build engine: %v", err)
	}
	if err := eng.StartSweeps(); err != nil {
		logger.Fatalf("start sweeps: %v", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", srvCfg.Port),
		Handler: server.New(eng),
	}

	go func() {
		logger.Printf("listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	eng.Close()
}
