package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/vismadk/service"
)

func Build(s service.Servicer, version, apiKey, apiSecret string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		injectServicer(s),
	)
	if apiKey != "" {
		v1.WithInterceptors(
			Authenticate(apiKey, apiSecret),
		)
	}

	v1.Resource("/companies").
		WithActions(
			box.Get(listCompanies),
		)

	v1.Resource("/tables").
		WithActions(
			box.Get(listTables),
		)

	v1.Resource("/companies/{companyName}/tables/{tableName}").
		WithActions(
			box.ActionPost(find),
			box.ActionPost(get),
			box.ActionPost(insert),
			box.ActionPost(update),
			box.ActionPost(remove),
		)

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "VismaDK"
	spec.Info.Description = "A record-oriented HTTP gateway to Visma Administration companies."
	spec.Info.Contact = &boxopenapi.Contact{
		Url: "https://github.com/fulldump/vismadk/issues/new",
	}
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(SetServicer(ctx, s))
		}
	}
}
