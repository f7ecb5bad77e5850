package cmd

var (
	configPath string

	outputDirectory string
	serieID         string
	mediaType       string
	unitSelection   string
	archiveFormat   string
	userEmail       string

	requestRetries uint
	requestDelay   uint
)

func initRootFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"specifies the path to your config file",
	)
}

func initDownloadFlags() {
	downloadCmd.Flags().StringVarP(
		&outputDirectory,
		"output",
		"o",
		".",
		"specifies the directory the serie folder is created in",
	)
	downloadCmd.Flags().StringVarP(
		&serieID,
		"serie",
		"s",
		"",
		"specifies the numeric serie identifier from the product page URL",
	)
	downloadCmd.Flags().StringVarP(
		&mediaType,
		"media",
		"m",
		"episode",
		"specifies the media type to download, episode or volume",
	)
	downloadCmd.Flags().StringVarP(
		&unitSelection,
		"numbers",
		"n",
		"",
		"specifies the units to download, e.g. \"1-5,8\". default: all",
	)
	downloadCmd.Flags().StringVarP(
		&archiveFormat,
		"format",
		"f",
		"cbz",
		"specifies the archive format, cbz or pdf",
	)
	downloadCmd.Flags().StringVarP(
		&userEmail,
		"user",
		"u",
		"",
		"specifies the account email, prompts for the password",
	)

	downloadCmd.Flags().UintVar(
		&requestRetries,
		"retry",
		3,
		"specifies the retries per request on 429 and server errors",
	)
	downloadCmd.Flags().UintVar(
		&requestDelay,
		"delay",
		1000,
		"specifies the base delay between requests in milliseconds",
	)

	_ = downloadCmd.MarkFlagRequired("serie")
}
