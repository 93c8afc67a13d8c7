package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fulldump/box"

	"github.com/fulldump/vismadk/api"
	"github.com/fulldump/vismadk/configuration"
	"github.com/fulldump/vismadk/memdriver"
	"github.com/fulldump/vismadk/service"
	"github.com/fulldump/vismadk/visma"
)

var VERSION = "dev"

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	driver := memdriver.New(nil)
	registry := visma.NewRegistry(driver, nil)

	err := addCompanies(registry, c.Companies, c.DataDir)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}

	b := api.Build(service.NewService(registry), VERSION, c.ApiKey, c.ApiSecret)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(log.New(os.Stdout, "ACCESS: ", log.Lshortfile)),
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
	log.Println("listening on", c.HttpAddr)

	stop = func() {
		s.Shutdown(context.Background())
		driver.Shutdown()
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			fmt.Println("Signal received", sig.String())
			stop()
		}
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Serve(ln)
			if err != nil {
				fmt.Println(err.Error())
			}
		}()

		wg.Wait()
	}

	return
}

// addCompanies registers the companies listed in the JSON file. A missing
// file is not an error, the registry just starts empty. Relative company
// paths are placed under dataDir.
func addCompanies(registry *visma.Registry, filename, dataDir string) error {

	if filename == "" {
		return nil
	}

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		log.Println("companies file not found, starting with no companies:", filename)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read companies: %w", err)
	}

	companies := []*visma.Config{}
	err = json.Unmarshal(data, &companies)
	if err != nil {
		return fmt.Errorf("parse companies '%s': %w", filename, err)
	}

	for _, company := range companies {
		if company.CompanyPath != "" && !filepath.IsAbs(company.CompanyPath) {
			company.CompanyPath = filepath.Join(dataDir, company.CompanyPath)
		}
		err := registry.AddCompany(company)
		if err != nil {
			return fmt.Errorf("company '%s': %w", company.Name, err)
		}
	}

	return nil
}
