package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"metalflow-app/config"
	"metalflow-app/controllers/idgen"
	"metalflow-app/database"
	"metalflow-app/services"
	"metalflow-app/utils"
	"metalflow-app/wms/pickinglist"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:          "picklist",
	Short:        "Parse, validate and import picking list documents",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
		utils.SetupLogger(config.LogLevel, config.LogFormat)
	},
}

func openDB() (*gorm.DB, error) {
	db, err := database.GetDBConnection()
	if err != nil {
		return nil, err
	}
	idgen.Init()
	return db, nil
}

func newService(db *gorm.DB) *pickinglist.Service {
	svc := pickinglist.NewService(db)
	if notifier := services.NewNotificationService(); notifier != nil {
		svc.Notifier = notifier
	}
	return svc
}

func commandContext(cmd *cobra.Command) context.Context {
	return utils.WithLogger(cmd.Context(), utils.Log.WithField("command", cmd.Name()))
}

func parseFileFlag(path string) (*pickinglist.ImportDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open document")
	}
	defer f.Close()
	return pickinglist.ParseFile(filepath.Base(path), f)
}

// parseRoutes membaca flag --route dalam format LINE=AREA_ID
func parseRoutes(values []string) (map[int]uint, error) {
	routing := make(map[int]uint, len(values))
	for _, value := range values {
		lineRaw, areaRaw, ok := strings.Cut(value, "=")
		if !ok {
			return nil, errors.Errorf("route %q must look like LINE=AREA_ID", value)
		}
		line, err := strconv.Atoi(strings.TrimSpace(lineRaw))
		if err != nil || line <= 0 {
			return nil, errors.Errorf("route %q has an invalid line number", value)
		}
		area, err := strconv.ParseUint(strings.TrimSpace(areaRaw), 10, 64)
		if err != nil || area == 0 {
			return nil, errors.Errorf("route %q has an invalid production area id", value)
		}
		routing[line] = uint(area)
	}
	return routing, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
