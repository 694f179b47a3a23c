// Command admintoken prints a bearer token for the admin routes, signed
// with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/middleware"
	"github.com/iliyamo/festival-schedule/internal/utils"
)

func main() {
	subject := flag.String("sub", "operator", "token subject")
	role := flag.String("role", middleware.RoleEditor, "ADMIN or EDITOR")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	tok, err := utils.NewAccessToken(os.Getenv("JWT_SECRET"), *subject, strings.ToUpper(*role), *ttl)
	if err != nil {
		appLog.Error("cannot issue token", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
	appLog.Info("token issued", "sub", *subject, "role", strings.ToUpper(*role), "expires", tok.Exp.Format(time.RFC3339))
}
