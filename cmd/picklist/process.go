package main

import (
	"metalflow-app/config"
	"metalflow-app/processor"

	"github.com/spf13/cobra"
)

var (
	processDir       string
	processUser      string
	processSheetArea uint
	processCoilArea  uint
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Import every picking list file waiting in the inbox folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		if processDir == "" {
			processDir = config.ImportInboxDir
		}
		if processUser == "" {
			processUser = config.ImportUserID
		}

		db, err := openDB()
		if err != nil {
			return err
		}

		routing := processor.DefaultRouting{SheetAreaID: processSheetArea, CoilAreaID: processCoilArea}
		report, err := processor.NewProcessor(db, newService(db), processDir, processUser, routing).Run(commandContext(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd, report)
	},
}

func init() {
	processCmd.Flags().StringVar(&processDir, "dir", "", "Inbox folder (default IMPORT_INBOX_DIR)")
	processCmd.Flags().StringVar(&processUser, "user", "", "User ID the imports run as (default IMPORT_USER_ID)")
	processCmd.Flags().UintVar(&processSheetArea, "sheet-area", 0, "Production area for Sheet lines")
	processCmd.Flags().UintVar(&processCoilArea, "coil-area", 0, "Production area for Coil lines")
	rootCmd.AddCommand(processCmd)
}
