package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zvrva/reservio/api"
	"github.com/zvrva/reservio/config"
	"github.com/zvrva/reservio/internal/service/booking"
	"github.com/zvrva/reservio/internal/service/catalog"
	"github.com/zvrva/reservio/internal/service/reservations"
	"github.com/zvrva/reservio/internal/service/users"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	userSvc users.UserUseCase,
	catalogSvc catalog.CatalogUseCase,
	reservationSvc reservations.ReservationUseCase,
	bookingSvc booking.BookingUseCase,
) error {
	router := gin.New()
	router.Use(gin.Recovery())

	api.NewUserHandler(userSvc).Register(router.Group("/users"))
	api.NewCatalogHandler(catalogSvc).Register(router.Group("/services"))
	api.NewReservationHandler(reservationSvc).Register(router.Group("/reservations"))
	api.NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
