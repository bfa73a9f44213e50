package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nuts-foundation/nuts-bankid/configuration"
	"github.com/nuts-foundation/nuts-bankid/logging"
	"github.com/nuts-foundation/nuts-bankid/pkg"
	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/credentials"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/dummy"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/rest"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/visibledata"
)

type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	Any(path string, h echo.HandlerFunc, mi ...echo.MiddlewareFunc) []*echo.Route
}

// Engine bundles the commands, flags and configuration of the BankID backend
type Engine struct {
	Cmd       *cobra.Command
	Config    *configuration.BankIDConfig
	Configure func() error
	FlagSet   *pflag.FlagSet
	Name      string
	Routes    func(router EchoRouter)
}

// NewBankIDEngine creates and returns a new Engine on the BankID singleton.
func NewBankIDEngine() *Engine {
	return newEngine(pkg.Instance())
}

func newEngine(backend *pkg.BankID) *Engine {
	routes := func(router EchoRouter) {
		dummy.New().Register(router)
	}
	return &Engine{
		Cmd:       cmd(backend, routes),
		Config:    &backend.Config,
		Configure: backend.Configure,
		FlagSet:   flagSet(),
		Name:      "BankID",
		Routes:    routes,
	}
}

const (
	flagEndUserIP      = "ip"
	flagPersonalNumber = "pnr"
	flagQR             = "qr"
	flagText           = "text"
	flagTemplate       = "template"
	flagParam          = "param"
	flagNonVisible     = "data"
)

func cmd(backend *pkg.BankID, routes func(router EchoRouter)) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bankid",
		Short:        "BankID relying party client",
		SilenceUsage: true,
	}

	cmd.AddCommand(authCmd(backend), signCmd(backend), collectCmd(backend), cancelCmd(backend))
	cmd.AddCommand(legacyCmd(backend))
	cmd.AddCommand(serverCmd(backend, routes), certCmd(backend))
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func authCmd(backend *pkg.BankID) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Start an authentication order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := backend.REST()
			if err != nil {
				return err
			}
			ip, _ := cmd.Flags().GetString(flagEndUserIP)
			pnr, _ := cmd.Flags().GetString(flagPersonalNumber)
			response, err := client.Auth(commandContext(cmd), services.AuthRequest{EndUserIP: ip, PersonalNumber: pnr})
			if err != nil {
				return err
			}
			if err := printResponse(cmd.OutOrStdout(), response); err != nil {
				return err
			}
			if qr, _ := cmd.Flags().GetBool(flagQR); qr {
				return printQR(cmd.OutOrStdout(), response)
			}
			return nil
		},
	}
	cmd.Flags().String(flagEndUserIP, "", "IP address of the end user")
	cmd.Flags().String(flagPersonalNumber, "", "personal number (12 digits)")
	cmd.Flags().Bool(flagQR, false, "print the auto start link as QR code")
	return cmd
}

func signCmd(backend *pkg.BankID) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Start a sign order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := backend.REST()
			if err != nil {
				return err
			}
			data, err := signData(cmd, backend)
			if err != nil {
				return err
			}
			ip, _ := cmd.Flags().GetString(flagEndUserIP)
			pnr, _ := cmd.Flags().GetString(flagPersonalNumber)
			response, err := client.Sign(commandContext(cmd), services.SignRequest{
				EndUserIP:          ip,
				PersonalNumber:     pnr,
				UserVisibleData:    data.UserVisibleData,
				UserNonVisibleData: data.UserNonVisibleData,
			})
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), response)
		},
	}
	cmd.Flags().String(flagEndUserIP, "", "IP address of the end user")
	cmd.Flags().String(flagPersonalNumber, "", "personal number (12 digits)")
	signFlags(cmd.Flags())
	return cmd
}

func signFlags(flags *pflag.FlagSet) {
	flags.String(flagText, "", "text shown to the user")
	flags.String(flagTemplate, "", "path to a mustache template for the text shown to the user, {{date}} is the current time")
	flags.StringToString(flagParam, nil, "template parameters, e.g. --param organization=Testbank")
	flags.String(flagNonVisible, "", "data signed but not shown to the user")
}

// signData renders the visible text from --text or --template and encodes both parts
func signData(cmd *cobra.Command, backend *pkg.BankID) (*services.SignData, error) {
	text, _ := cmd.Flags().GetString(flagText)
	templatePath, _ := cmd.Flags().GetString(flagTemplate)
	params, _ := cmd.Flags().GetStringToString(flagParam)
	nonVisible, _ := cmd.Flags().GetString(flagNonVisible)

	if text != "" && templatePath != "" {
		return nil, fmt.Errorf("%w: use either --%s or --%s", services.ErrValidation, flagText, flagTemplate)
	}
	if templatePath != "" {
		raw, err := ioutil.ReadFile(templatePath)
		if err != nil {
			return nil, err
		}
		text = string(raw)
	}

	result := &services.SignData{}
	if text != "" {
		var err error
		template := visibledata.Template{Text: text, Locale: backend.Locale()}
		if result.UserVisibleData, err = template.Encode(params); err != nil {
			return nil, err
		}
	}
	if nonVisible != "" {
		var err error
		if result.UserNonVisibleData, err = visibledata.EncodeNonVisible(nonVisible); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func collectCmd(backend *pkg.BankID) *cobra.Command {
	return &cobra.Command{
		Use:   "collect [orderRef]",
		Short: "Collect the status of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := backend.REST()
			if err != nil {
				return err
			}
			response, err := client.Collect(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), response)
		},
	}
}

func cancelCmd(backend *pkg.BankID) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [orderRef]",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := backend.REST()
			if err != nil {
				return err
			}
			response, err := client.Cancel(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), response)
		},
	}
}

// printResponse writes the body as indented JSON. A non 2xx response gives an error with the BankID error code.
func printResponse(out io.Writer, response *services.Response) error {
	buf := bytes.Buffer{}
	if err := json.Indent(&buf, response.Body, "", "  "); err != nil {
		buf.Reset()
		buf.Write(response.Body)
	}
	fmt.Fprintln(out, buf.String())

	if response.OK() {
		return nil
	}
	errorResponse, err := response.Error()
	if err != nil || errorResponse.ErrorCode == "" {
		return fmt.Errorf("BankID returned %d", response.StatusCode)
	}
	return fmt.Errorf("BankID returned %d: %s", response.StatusCode, errorResponse.ErrorCode)
}

func printQR(out io.Writer, response *services.Response) error {
	order, err := response.Order()
	if err != nil {
		return err
	}
	if order.AutoStartToken == "" {
		return nil
	}
	qrterminal.GenerateHalfBlock(rest.AutoStartURL(order.AutoStartToken), qrterminal.L, out)
	return nil
}

func printJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func legacyCmd(backend *pkg.BankID) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "commands on the legacy SOAP interface",
	}
	cmd.PersistentFlags().String(flagPersonalNumber, "", "personal number (12 digits) the orders are for")

	connect := func(cmd *cobra.Command) (services.LegacyClient, error) {
		pnr, _ := cmd.Flags().GetString(flagPersonalNumber)
		return backend.Legacy(commandContext(cmd), pnr)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "auth",
		Short: "Start an authentication order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect(cmd)
			if err != nil {
				return err
			}
			result, err := client.Authenticate(commandContext(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	})

	sign := &cobra.Command{
		Use:   "sign",
		Short: "Start a sign order",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := signData(cmd, backend)
			if err != nil {
				return err
			}
			client, err := connect(cmd)
			if err != nil {
				return err
			}
			result, err := client.Sign(commandContext(cmd), data)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	signFlags(sign.Flags())
	cmd.AddCommand(sign)

	cmd.AddCommand(&cobra.Command{
		Use:   "collect [orderRef]",
		Short: "Collect the status of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect(cmd)
			if err != nil {
				return err
			}
			result, err := client.Collect(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	})

	cancel := func(op func(ctx context.Context, client services.LegacyClient) (string, error)) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			client, err := connect(cmd)
			if err != nil {
				return err
			}
			result, err := op(commandContext(cmd), client)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		}
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "cancel-auth",
		Short: "Cancel the pending authentication of the personal number",
		RunE: cancel(func(ctx context.Context, client services.LegacyClient) (string, error) {
			return client.CancelAuthenticate(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "cancel-sign",
		Short: "Cancel the pending sign order of the personal number",
		RunE: cancel(func(ctx context.Context, client services.LegacyClient) (string, error) {
			return client.CancelSign(ctx, nil)
		}),
	})
	return cmd
}

func serverCmd(backend *pkg.BankID, routes func(router EchoRouter)) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run a dummy BankID server for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			echoServer := initEcho(routes)
			logging.Log().Infof("Dummy BankID REST API on %s, SOAP on %s", dummy.RestPath, dummy.SoapPath)
			return echoServer.Start(backend.Config.Address)
		},
	}
}

func initEcho(routes func(router EchoRouter)) *echo.Echo {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Use(middleware.Logger())
	routes(echoServer)
	return echoServer
}

func certCmd(backend *pkg.BankID) *cobra.Command {
	return &cobra.Command{
		Use:   "cert",
		Short: "Show the configured client certificate and its expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			leaf, state, err := backend.CertificateStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subject:   %s\n", leaf.Subject.String())
			fmt.Fprintf(out, "Issuer:    %s\n", leaf.Issuer.String())
			fmt.Fprintf(out, "NotBefore: %s\n", leaf.NotBefore.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "NotAfter:  %s\n", leaf.NotAfter.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "State:     %s\n", state)

			switch state {
			case credentials.NearExpiry:
				logging.Log().Warnf("Client certificate expires at %s", leaf.NotAfter)
			case credentials.Expired, credentials.NotValidYet:
				return fmt.Errorf("client certificate is %s", strings.ToLower(strings.Replace(string(state), "_", " ", -1)))
			}
			return nil
		},
	}
}

func flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("bankid", pflag.ContinueOnError)

	config := configuration.Default()
	flags.String(configuration.ConfMode, config.Mode, "rest or soap, the interface used by the client commands")
	flags.String(configuration.ConfBaseURL, config.BaseURL, "base URL of the RP API")
	flags.String(configuration.ConfPFX, config.PFX, "path to the PKCS#12 client certificate (rest)")
	flags.String(configuration.ConfPassphrase, config.Passphrase, "passphrase of the client certificate")
	flags.String(configuration.ConfCA, config.CA, "path to the CA bundle of the BankID server (rest)")
	flags.String(configuration.ConfSoapURL, config.SoapURL, "URL of the SOAP service, the WSDL is fetched from <url>?wsdl")
	flags.String(configuration.ConfCert, config.Cert, "path to the PEM client certificate (soap)")
	flags.String(configuration.ConfKey, config.Key, "path to the PEM private key, may be encrypted (soap)")
	flags.Bool(configuration.ConfStrictTLS, config.StrictTLS, "verify the certificate of the SOAP server")
	flags.Int(configuration.ConfCancelMaxAttempts, config.CancelMaxAttempts, "maximum number of calls made to cancel a SOAP order")
	flags.Duration(configuration.ConfCancelBackoff, config.CancelBackoff, "initial pause between cancel attempts")
	flags.String(configuration.ConfAddress, config.Address, "Interface and port for the dummy server to bind to")
	flags.String(configuration.ConfLocale, config.Locale, "locale of dates in user visible data")

	return flags
}
