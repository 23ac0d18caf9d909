package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func hostFlag(v *viper.Viper) string {
	return v.GetString("host")
}

func addHostFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("host", "", "Host to bind to, empty for all interfaces")
	_ = v.BindPFlag("host", flags.Lookup("host"))
	_ = v.BindEnv("host", "OTASERVER_HOST")
}

func portFlag(v *viper.Viper) int {
	return v.GetInt("port")
}

func addPortFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.IntP("port", "p", 8070, "The port to run the http server on")
	_ = v.BindPFlag("port", flags.Lookup("port"))
	_ = v.BindEnv("port", "OTASERVER_PORT")
}

func httpFilenameFlag(v *viper.Viper) string {
	return v.GetString("http_filename")
}

func addHTTPFilenameFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringP("http-filename", "f", "ota.bin", "The http path of the binary file")
	_ = v.BindPFlag("http_filename", flags.Lookup("http-filename"))
	_ = v.BindEnv("http_filename", "OTASERVER_HTTP_FILENAME")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Time to wait before shutting down")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "OTASERVER_GRACEFUL_PERIOD")
}

func shutdownTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("shutdown_timeout")
}

func addShutdownTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("shutdown-timeout", 5*time.Second, "Timeout duration for shutdown")
	_ = v.BindPFlag("shutdown_timeout", flags.Lookup("shutdown-timeout"))
	_ = v.BindEnv("shutdown_timeout", "OTASERVER_SHUTDOWN_TIMEOUT")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
	_ = v.BindEnv("service.healthz.enabled", "OTASERVER_SERVICE_HEALTHZ_ENABLED")
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
	_ = v.BindEnv("service.prometheus.enabled", "OTASERVER_SERVICE_PROMETHEUS_ENABLED")
}
