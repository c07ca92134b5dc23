package consts

const (
	ParamDate        = "date"
	ParamApiKey      = "api_key"
	ParamPictureType = "picturetype"

	TimeFormat     = "2006-01-02"
	FileDateFormat = "060102"
	DisplayFormat  = "Monday, January 2, 2006"

	// first published APOD
	EpochStart = "1995-06-16"

	ApodURL     = "https://api.nasa.gov/planetary/apod"
	NasaPageURL = "http://apod.nasa.gov/apod/"

	CreditCopyright = "Image credit and copyright: "
	CreditNASA      = "Image credit: NASA"

	MediaImage = "image"

	EnvApiKey        = "APOD_API_KEY"
	EnvApodURL       = "APOD_URL"
	EnvVerbose       = "APOD_VERBOSE"
	EnvConfig        = "APOD_CONFIG"
	EnvPort          = "APP_PORT"
	EnvStoreDriver   = "STORE_DRIVER"
	EnvStoreDSN      = "STORE_DSN"
	EnvSessionCookie = "SESSION_COOKIE"
	EnvSessionMaxAge = "SESSION_MAX_AGE"
	EnvSessionSecure = "SESSION_SECURE"

	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"

	SessionCookie = "apod_session"
)

// ImageExtensions are the url suffixes treated as images when media_type is missing.
var ImageExtensions = []string{".jpg", ".gif", ".jpeg", ".png"}
