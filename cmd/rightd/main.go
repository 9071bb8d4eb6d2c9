package main

import (
	"flag"

	"github.com/goodbye-jack/go-right/config"
	"github.com/goodbye-jack/go-right/http"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/menu"
	"github.com/goodbye-jack/go-right/org"
	"github.com/goodbye-jack/go-right/orm"
	"github.com/goodbye-jack/go-right/rbac"
	"github.com/goodbye-jack/go-right/right"
	"github.com/goodbye-jack/go-right/sequence"
)

func main() {
	configDir := flag.String("config", "", "config.yaml 所在目录，为空时按 . ./config /opt 查找")
	flag.Parse()

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatalf("load config, %v", err)
	}
	log.Init(cfg.ServiceName, log.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	log.LoadPrintProjectName(cfg.ServiceName)

	stores, err := orm.InitStores(cfg)
	if err != nil {
		log.Fatalf("init stores, %v", err)
	}
	defer stores.Close()

	alloc := sequence.NewAllocator(stores.Counter, sequence.WithLeaseSize(cfg.Sequence.LeaseSize))
	resolver := right.NewResolver(stores.Rights, stores.Catalog)
	builder := menu.NewTreeBuilder(stores.Catalog, stores.TreeCache)

	var enforcer *rbac.Enforcer
	if cfg.Casbin.RedisAddr != "" {
		enforcer, err = rbac.NewRedisEnforcer(resolver, cfg.Casbin.RedisAddr)
	} else {
		enforcer, err = rbac.NewEnforcer(resolver, nil)
	}
	if err != nil {
		log.Fatalf("init enforcer, %v", err)
	}

	writer := right.NewWriter(stores.Rights, alloc, right.WithMaxRetries(cfg.Right.MaxRetries))
	svc := &http.Services{
		Allocator: alloc,
		Writer:    writer,
		Resolver:  resolver,
		Tree:      builder,
		Catalog:   menu.NewCatalog(stores.Catalog, alloc, builder),
		Org:       org.NewService(stores.Org, alloc, writer, resolver),
		Enforcer:  enforcer,
	}
	server := http.NewHTTPServer(
		cfg.ServiceName,
		http.WithJWTSecret(cfg.JWTSecret),
		http.WithLoginRequired(cfg.HTTP.LoginRequired),
	)
	svc.Register(server)
	if err := server.Run(cfg.Addr); err != nil {
		log.Errorf("server %v stopped, %v", cfg.ServiceName, err)
	}
}
