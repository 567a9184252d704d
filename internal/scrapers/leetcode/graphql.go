package leetcode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cpt/internal/transport"
)

// GraphqlError is returned when the api answers with an "errors" list.
type GraphqlError struct {
	Operation string
	Messages  []string
}

func (e *GraphqlError) Error() string {
	return fmt.Sprintf("graphql %s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

type graphqlRequest struct {
	Name     string `json:"operationName"`
	Query    string `json:"query"`
	Variable any    `json:"variables"`
}

type graphqlResponse[T any] struct {
	Data   T `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func graphqlQuery[O any](
	ctx context.Context,
	client *Client,
	name,
	query string,
	variables any,
	output *O,
) error {
	client.tel.ReportDebug(report_client_graphql_query, name, variables)

	token, err := client.csrfToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(graphqlRequest{
		Name:     name,
		Query:    query,
		Variable: variables,
	})
	if err != nil {
		client.tel.ReportBroken(
			report_client_graphql_query,
			fmt.Errorf("json marshal: %w", err),
		)
		return err
	}

	req := transport.Post("graphql", body)
	req.Header = client.headers(token)
	res, err := client.transport.Execute(ctx, req)
	if err != nil {
		client.tel.ReportBroken(
			report_client_graphql_query,
			fmt.Errorf("fetch: %w", err),
		)
		return err
	}

	parsed := graphqlResponse[O]{}
	err = json.Unmarshal(res.Body, &parsed)
	if err != nil {
		if checkErr := res.Check(); checkErr != nil {
			err = checkErr
		}
		client.tel.ReportBroken(
			report_client_graphql_query,
			fmt.Errorf("unmarshal json: %w", err),
		)
		return err
	}
	if len(parsed.Errors) > 0 {
		gqlErr := &GraphqlError{Operation: name}
		for _, e := range parsed.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}
	err = res.Check()
	if err != nil {
		client.tel.ReportBroken(report_client_graphql_query, err)
		return err
	}

	*output = parsed.Data

	client.tel.ReportDebug(
		fmt.Sprintf("%s response", report_client_graphql_query),
		name,
	)

	return nil
}
