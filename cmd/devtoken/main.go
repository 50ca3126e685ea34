// Command devtoken mints an access token for local testing and can seed the
// shipping profile used by checkout's use_profile_data option.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/tvshop-backend/internal/users"
	"github.com/angelmondragon/tvshop-backend/pkg/auth"
	"github.com/angelmondragon/tvshop-backend/pkg/config"
	"github.com/angelmondragon/tvshop-backend/pkg/db"
	"github.com/angelmondragon/tvshop-backend/pkg/enums"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
	"github.com/angelmondragon/tvshop-backend/pkg/shipping"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "devtoken"})

	_ = godotenv.Load()

	userFlag := flag.String("user", "", "user id (random when empty)")
	roleFlag := flag.String("role", string(enums.RoleCustomer), "customer|admin")
	seedProfile := flag.Bool("seed-profile", false, "store a shipping profile for the user")
	firstName := flag.String("first-name", "Dev", "profile first name")
	lastName := flag.String("last-name", "Customer", "profile last name")
	address := flag.String("address", "1 Main Street", "profile address")
	city := flag.String("city", "Springfield", "profile city")
	zipcode := flag.String("zipcode", "12345", "profile zipcode")
	phone := flag.String("phone", "+15550100123", "profile phone number")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)
	if !cfg.App.IsDev() {
		fmt.Fprintln(os.Stderr, "devtoken only runs with TVSHOP_APP_ENV=dev")
		os.Exit(1)
	}

	userID := uuid.New()
	if *userFlag != "" {
		userID, err = uuid.Parse(*userFlag)
		requireResource(ctx, logg, "user id", err)
	}
	role, err := enums.ParseRole(*roleFlag)
	requireResource(ctx, logg, "role", err)

	if *seedProfile {
		details := shipping.Details{
			FirstName:   *firstName,
			LastName:    *lastName,
			Address:     *address,
			City:        *city,
			Zipcode:     *zipcode,
			PhoneNumber: *phone,
		}.Normalize()
		requireResource(ctx, logg, "profile", shipping.Validate(details))

		dbClient, err := db.New(ctx, cfg.DB, logg)
		requireResource(ctx, logg, "database", err)
		defer dbClient.Close()

		_, err = users.NewRepository(dbClient.DB()).UpsertProfile(ctx, users.ProfileDTO{
			UserID:      userID,
			FirstName:   details.FirstName,
			LastName:    details.LastName,
			PhoneNumber: details.PhoneNumber,
			Address:     details.Address,
			City:        details.City,
			Zipcode:     details.Zipcode,
		})
		requireResource(ctx, logg, "profile upsert", err)
	}

	token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{UserID: userID, Role: role})
	requireResource(ctx, logg, "token", err)

	fmt.Println("user_id:", userID)
	fmt.Println("role:", role)
	fmt.Println("token:", token)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
