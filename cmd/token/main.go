// Command token mints an access token for local development, standing in for
// the identity provider.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/14kear/online-polls/internal/config"
	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/lib/jwt"
)

func main() {
	var (
		configPath string
		userID     int64
		email      string
		role       string
	)

	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.Int64Var(&userID, "uid", 0, "user id")
	flag.StringVar(&email, "email", "", "user email")
	flag.StringVar(&role, "role", string(entity.RoleVoter), "admin or voter")
	flag.Parse()

	if userID <= 0 {
		log.Fatal("-uid must be positive")
	}

	r, ok := entity.ParseRole(role)
	if !ok {
		log.Fatalf("unknown role %q", role)
	}

	cfg := config.Load(config.Path(configPath))

	token, err := jwt.NewAccessToken(entity.Identity{UserID: userID, Email: email, Role: r}, cfg.Auth.Secret, cfg.Auth.AccessTTL)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
