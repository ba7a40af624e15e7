package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/hashicorp/go-multierror"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/spamham/app/events"
	"github.com/umputun/spamham/app/inference"
	"github.com/umputun/spamham/app/mail"
	"github.com/umputun/spamham/app/pipeline"
	"github.com/umputun/spamham/app/storage"
	"github.com/umputun/spamham/app/webapi"
	"github.com/umputun/spamham/lib/encoder"
)

type options struct {
	S3 struct {
		Endpoint  string `long:"endpoint" env:"ENDPOINT" default:"s3.amazonaws.com" description:"s3 endpoint, host[:port]"`
		AccessKey string `long:"access-key" env:"ACCESS_KEY" description:"s3 access key"`
		SecretKey string `long:"secret-key" env:"SECRET_KEY" description:"s3 secret key"`
		Region    string `long:"region" env:"REGION" description:"s3 region"`
		SSL       bool   `long:"ssl" env:"SSL" description:"use https for s3"`
		MaxSize   int64  `long:"max-size" env:"MAX_SIZE" default:"10485760" description:"max message size in bytes"`
		Trace     bool   `long:"trace" env:"TRACE" description:"trace s3 http requests"`
	} `group:"s3" namespace:"s3" env-namespace:"S3"`

	Inference struct {
		Type     string        `long:"type" env:"TYPE" choice:"http" choice:"sagemaker" default:"http" description:"classifier endpoint type"`
		URL      string        `long:"url" env:"URL" description:"classifier http endpoint"`
		Token    string        `long:"token" env:"TOKEN" description:"bearer token for http endpoint"`
		Endpoint string        `long:"endpoint" env:"ENDPOINT" description:"sagemaker endpoint name"`
		Timeout  time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"classifier request timeout"`
	} `group:"inference" namespace:"inference" env-namespace:"INFERENCE"`

	Mail struct {
		Via      string `long:"via" env:"VIA" choice:"smtp" choice:"ses" default:"smtp" description:"notification transport"`
		From     string `long:"from" env:"FROM" description:"notification sender address"`
		Subject  string `long:"subject" env:"SUBJECT" default:"Spam Protection Services" description:"notification subject"`
		Template string `long:"template" env:"TEMPLATE" description:"notification template file, reloaded on change"`
	} `group:"mail" namespace:"mail" env-namespace:"MAIL"`

	SMTP struct {
		Host               string        `long:"host" env:"HOST" description:"smtp server, host:port"`
		Username           string        `long:"username" env:"USERNAME" description:"smtp user"`
		Password           string        `long:"password" env:"PASSWORD" description:"smtp password"`
		StartTLS           bool          `long:"starttls" env:"STARTTLS" description:"use STARTTLS"`
		TLS                bool          `long:"tls" env:"TLS" description:"use implicit tls"`
		InsecureSkipVerify bool          `long:"insecure" env:"INSECURE" description:"skip tls certificate verification"`
		Timeout            time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"smtp command timeout"`
	} `group:"smtp" namespace:"smtp" env-namespace:"SMTP"`

	SES struct {
		Endpoint string `long:"endpoint" env:"ENDPOINT" description:"custom ses endpoint"`
	} `group:"ses" namespace:"ses" env-namespace:"SES"`

	AWS struct {
		Region    string `long:"region" env:"REGION" default:"us-east-1" description:"aws region for ses and sagemaker"`
		AccessKey string `long:"access-key" env:"ACCESS_KEY" description:"aws access key, default credentials chain if empty"`
		SecretKey string `long:"secret-key" env:"SECRET_KEY" description:"aws secret key"`
	} `group:"aws" namespace:"aws" env-namespace:"AWS"`

	Encoder struct {
		VocabSize int    `long:"vocab-size" env:"VOCAB_SIZE" default:"9013" description:"vocabulary size, number of features"`
		Digest    string `long:"digest" env:"DIGEST" choice:"md5" choice:"blake3" default:"md5" description:"token hash function"`
	} `group:"encoder" namespace:"encoder" env-namespace:"ENCODER"`

	Listen struct {
		Enabled    bool          `long:"enabled" env:"ENABLED" description:"listen for minio bucket notifications"`
		Bucket     string        `long:"bucket" env:"BUCKET" description:"bucket to listen"`
		Prefix     string        `long:"prefix" env:"PREFIX" description:"object key prefix"`
		Suffix     string        `long:"suffix" env:"SUFFIX" description:"object key suffix"`
		RetryDelay time.Duration `long:"retry-delay" env:"RETRY_DELAY" default:"5s" description:"delay before re-subscribing"`
	} `group:"listen" namespace:"listen" env-namespace:"LISTEN"`

	Server struct {
		Enabled    bool    `long:"enabled" env:"ENABLED" description:"enable web server"`
		ListenAddr string  `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		AuthUser   string  `long:"auth-user" env:"AUTH_USER" default:"spamham" description:"basic auth user"`
		AuthPasswd string  `long:"auth" env:"AUTH" description:"basic auth password, auto to generate"`
		RateLimit  float64 `long:"rate-limit" env:"RATE_LIMIT" default:"50" description:"max requests per second per ip"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable rotated log file"`
		FileName   string `long:"file" env:"FILE" default:"spamham.log" description:"location of log file"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Bucket   string        `long:"bucket" env:"BUCKET" description:"bucket of a single message to process"`
	Key      string        `long:"key" env:"KEY" description:"key of a single message to process"`
	File     string        `long:"file" env:"FILE" description:"local message file to process"`
	DedupTTL time.Duration `long:"dedup-ttl" env:"DEDUP_TTL" default:"1h" description:"ignore repeated notifications for the same object, 0 to disable"`
	Dry      bool          `long:"dry" env:"DRY" description:"dry mode, no notifications sent"`
	Dbg      bool          `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("spamham %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			lgr.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	logWr, err := makeLogWriter(opts)
	if err != nil {
		lgr.Printf("[ERROR] can't make log writer, %v", err)
		os.Exit(1)
	}
	defer logWr.Close()
	setupLog(opts.Dbg, logWr, opts.S3.SecretKey, opts.AWS.SecretKey, opts.SMTP.Password, opts.Inference.Token,
		opts.Server.AuthPasswd)
	lgr.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		lgr.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		lgr.Printf("[ERROR] %v", err)
		_ = logWr.Close()
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	if err := validateOptions(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if opts.Dry {
		lgr.Printf("[WARN] dry mode, no notifications sent")
	}

	proc, renderer, err := makeProcessor(ctx, opts)
	if err != nil {
		return err
	}

	// one-shot modes
	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return fmt.Errorf("can't read %s: %w", opts.File, err)
		}
		rep, err := proc.ProcessMessage(ctx, data)
		if err != nil {
			return fmt.Errorf("can't process %s: %w", opts.File, err)
		}
		printReport(opts.File, rep)
		return nil
	}
	if opts.Bucket != "" || opts.Key != "" {
		ref := events.ObjectRef{Bucket: opts.Bucket, Key: opts.Key}
		rep, err := proc.Process(ctx, ref)
		if err != nil {
			return err
		}
		printReport(ref.String(), rep)
		return nil
	}

	dedup := events.NewDedup(opts.DedupTTL, 10000)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return renderer.Watch(gctx) })

	if opts.Listen.Enabled {
		store, ok := proc.Store.(*storage.S3Store)
		if !ok {
			return errors.New("bucket listener requires s3 store")
		}
		listener := events.Listener{Source: store, Handler: proc, Dedup: dedup, Bucket: opts.Listen.Bucket,
			Prefix: opts.Listen.Prefix, Suffix: opts.Listen.Suffix, RetryDelay: opts.Listen.RetryDelay}
		g.Go(func() error {
			if err := listener.Do(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("bucket listener failed: %w", err)
			}
			return nil
		})
	}

	if opts.Server.Enabled {
		authPasswd := opts.Server.AuthPasswd
		if authPasswd == "auto" {
			if authPasswd, err = webapi.GenerateRandomPassword(20); err != nil {
				return fmt.Errorf("can't generate random password, %w", err)
			}
			lgr.Printf("[WARN] generated basic auth password for user %s: %q", opts.Server.AuthUser, authPasswd)
		}
		srv := webapi.NewServer(webapi.Config{Version: revision, ListenAddr: opts.Server.ListenAddr, Processor: proc,
			Dedup: dedup, AuthUser: opts.Server.AuthUser, AuthPasswd: authPasswd, RateLimit: opts.Server.RateLimit,
			ProcessTimeout: eventTimeout(opts)})
		g.Go(func() error { return srv.Run(gctx) })
	}

	return g.Wait()
}

// eventTimeout is the longest processing of a webhook notification: classifier request and a full
// smtp session (dial, hello, auth, mail, rcpt, data, quit), each step bounded by its timeout
func eventTimeout(opts options) time.Duration {
	return opts.Inference.Timeout + 7*opts.SMTP.Timeout
}

// validateOptions checks options consistency and reports all problems at once
func validateOptions(opts options) error {
	errs := new(multierror.Error)
	oneShot := opts.File != "" || opts.Bucket != "" || opts.Key != ""
	if !oneShot && !opts.Listen.Enabled && !opts.Server.Enabled {
		errs = multierror.Append(errs, errors.New("nothing to do, set --file, --bucket and --key, --listen.enabled or --server.enabled"))
	}
	if (opts.Bucket == "") != (opts.Key == "") {
		errs = multierror.Append(errs, errors.New("both --bucket and --key are required"))
	}
	if opts.Listen.Enabled && opts.Listen.Bucket == "" {
		errs = multierror.Append(errs, errors.New("--listen.bucket is required for bucket listener"))
	}
	if opts.Encoder.VocabSize < 2 {
		errs = multierror.Append(errs, fmt.Errorf("vocabulary size must be at least 2, got %d", opts.Encoder.VocabSize))
	}
	switch opts.Inference.Type {
	case "http":
		if opts.Inference.URL == "" {
			errs = multierror.Append(errs, errors.New("--inference.url is required for http classifier"))
		}
	case "sagemaker":
		if opts.Inference.Endpoint == "" {
			errs = multierror.Append(errs, errors.New("--inference.endpoint is required for sagemaker classifier"))
		}
	}
	if !opts.Dry {
		if opts.Mail.From == "" {
			errs = multierror.Append(errs, errors.New("--mail.from is required"))
		}
		if opts.Mail.Via == "smtp" && opts.SMTP.Host == "" {
			errs = multierror.Append(errs, errors.New("--smtp.host is required for smtp transport"))
		}
		if opts.SMTP.TLS && opts.SMTP.StartTLS {
			errs = multierror.Append(errs, errors.New("--smtp.tls and --smtp.starttls are mutually exclusive"))
		}
	}
	return errs.ErrorOrNil()
}

// makeProcessor makes message processor with all its dependencies
func makeProcessor(ctx context.Context, opts options) (*pipeline.Processor, *mail.Renderer, error) {
	digest, err := encoder.ParseDigest(opts.Encoder.Digest)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.New(storage.Params{Endpoint: opts.S3.Endpoint, AccessKey: opts.S3.AccessKey,
		SecretKey: opts.S3.SecretKey, Region: opts.S3.Region, UseSSL: opts.S3.SSL, MaxSize: opts.S3.MaxSize,
		Debug: opts.S3.Trace})
	if err != nil {
		return nil, nil, fmt.Errorf("can't make s3 store, %w", err)
	}

	renderer, err := mail.NewRenderer(opts.Mail.Subject, opts.Mail.Template)
	if err != nil {
		return nil, nil, fmt.Errorf("can't make notification renderer, %w", err)
	}

	var awsCfg *aws.Config
	lazyAWSConfig := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		cfg, err := makeAWSConfig(ctx, opts)
		if err != nil {
			return aws.Config{}, fmt.Errorf("can't load aws config, %w", err)
		}
		awsCfg = &cfg
		return cfg, nil
	}

	predictor, err := makePredictor(opts, lazyAWSConfig)
	if err != nil {
		return nil, nil, err
	}
	sender, err := makeSender(opts, lazyAWSConfig)
	if err != nil {
		return nil, nil, err
	}

	var enc *encoder.Encoder // default md5 encoding goes through lib.Encode
	if digest != encoder.DigestMD5 {
		enc = encoder.New(encoder.WithDigest(digest))
	}

	proc := &pipeline.Processor{
		Store:          store,
		Predictor:      predictor,
		Sender:         sender,
		Renderer:       renderer,
		Encoder:        enc,
		VocabularySize: opts.Encoder.VocabSize,
		Dry:            opts.Dry,
	}
	lgr.Printf("[DEBUG] processor: inference %s, mail via %s, vocabulary %d, digest %s",
		opts.Inference.Type, opts.Mail.Via, opts.Encoder.VocabSize, digest)
	return proc, renderer, nil
}

func makePredictor(opts options, awsConfig func() (aws.Config, error)) (pipeline.Predictor, error) {
	switch opts.Inference.Type {
	case "sagemaker":
		cfg, err := awsConfig()
		if err != nil {
			return nil, err
		}
		client := sagemakerruntime.NewFromConfig(cfg)
		return &inference.SageMakerPredictor{Client: client, Endpoint: opts.Inference.Endpoint}, nil
	case "http", "":
		return &inference.HTTPPredictor{URL: opts.Inference.URL, Token: opts.Inference.Token,
			Client: &http.Client{Timeout: opts.Inference.Timeout}}, nil
	}
	return nil, fmt.Errorf("unknown inference type %q", opts.Inference.Type)
}

func makeSender(opts options, awsConfig func() (aws.Config, error)) (pipeline.Sender, error) {
	switch opts.Mail.Via {
	case "ses":
		cfg, err := awsConfig()
		if err != nil {
			return nil, err
		}
		client := sesv2.NewFromConfig(cfg, func(o *sesv2.Options) {
			if opts.SES.Endpoint != "" {
				o.BaseEndpoint = aws.String(opts.SES.Endpoint)
			}
		})
		return &mail.SESSender{Client: client, From: opts.Mail.From}, nil
	case "smtp", "":
		return &mail.SMTPSender{Host: opts.SMTP.Host, Username: opts.SMTP.Username, Password: opts.SMTP.Password,
			From: opts.Mail.From, TLS: opts.SMTP.TLS, StartTLS: opts.SMTP.StartTLS,
			InsecureSkipVerify: opts.SMTP.InsecureSkipVerify, Timeout: opts.SMTP.Timeout}, nil
	}
	return nil, fmt.Errorf("unknown mail transport %q", opts.Mail.Via)
}

// makeAWSConfig loads aws config with the default chain, static credentials used if set
func makeAWSConfig(ctx context.Context, opts options) (aws.Config, error) {
	cfgOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.AWS.Region)}
	if opts.AWS.AccessKey != "" {
		cfgOpts = append(cfgOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AWS.AccessKey, opts.AWS.SecretKey, "")))
	}
	return config.LoadDefaultConfig(ctx, cfgOpts...)
}

func printReport(name string, rep pipeline.Report) {
	lgr.Printf("[INFO] %s from %s, subject %q: %s, notified: %v", name, rep.Message.ReplyTo, rep.Message.Subject,
		rep.Result, rep.Sent)
	lgr.Printf("[DEBUG] notification to %s:\n%s", rep.Notification.To, rep.Notification.Body)
}

// makeLogWriter creates rotated log file writer, logs are written to it in addition to stdout.
// It parses options and makes lumberjack logger with rotation
func makeLogWriter(opts options) (io.WriteCloser, error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	sizeParse := func(inp string) (uint64, error) {
		if inp == "" {
			return 0, errors.New("empty value")
		}
		for i, sfx := range []string{"k", "m", "g", "t"} {
			if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
				val, err := strconv.Atoi(inp[:len(inp)-1])
				if err != nil {
					return 0, fmt.Errorf("can't parse %s: %w", inp, err)
				}
				return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
			}
		}
		return strconv.ParseUint(inp, 10, 64)
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	lgr.Printf("[INFO] logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, fileWr io.Writer, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if _, discard := fileWr.(nopWriteCloser); fileWr != nil && !discard {
		// no colors in the file
		logOpts = append(logOpts, lgr.Out(io.MultiWriter(os.Stdout, fileWr)), lgr.Err(io.MultiWriter(os.Stderr, fileWr)))
	} else {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	nonEmpty := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
