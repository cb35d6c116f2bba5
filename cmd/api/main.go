package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storecart/internal/config"
	"storecart/internal/db"
	"storecart/internal/httpserver"
	cartrepo "storecart/internal/repository/cart"
	productrepo "storecart/internal/repository/product"
	tokenrepo "storecart/internal/repository/token"
	userrepo "storecart/internal/repository/user"
	cartsvc "storecart/internal/service/cart"
	productsvc "storecart/internal/service/product"
	usersvc "storecart/internal/service/user"
	"storecart/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	cartRepo := cartrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	cartService := cartsvc.New(cartRepo, productRepo)
	productService := productsvc.New(productRepo)
	userService := usersvc.New(userRepo, tokenRepo)

	store := session.NewCookieStore(cfg.SessionSecret)
	sessionManager := session.NewManager(store, cartService, cfg.SessionCookieName)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions:   sessionManager,
		CartSvc:    cartService,
		ProductSvc: productService,
		UserSvc:    userService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
