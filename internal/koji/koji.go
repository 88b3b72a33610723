// Package koji is a read-only client for the Koji hub XML-RPC API.
package koji

import (
	"fmt"
	"net/http"
	"strings"

	rh "github.com/hashicorp/go-retryablehttp"
	"github.com/kolo/xmlrpc"
	"github.com/sirupsen/logrus"

	"github.com/fedora-ci/rpminspect-runner/internal/common"
)

// DefaultHubURL is the Fedora Koji hub.
const DefaultHubURL = "https://koji.fedoraproject.org/kojihub"

const retryCount = 10

type Koji struct {
	xmlrpc *xmlrpc.Client
	server string
}

// BuildInfo is the subset of a Koji build record the runner reads.
type BuildInfo struct {
	ID     int                    `xmlrpc:"id"`
	NVR    string                 `xmlrpc:"nvr"`
	TaskID int                    `xmlrpc:"task_id"`
	Extra  map[string]interface{} `xmlrpc:"extra"`
}

// OriginalURL returns extra.source.original_url, or an empty string when
// the build does not record one.
func (b *BuildInfo) OriginalURL() string {
	source, ok := b.Extra["source"].(map[string]interface{})
	if !ok {
		return ""
	}
	url, _ := source["original_url"].(string)
	return url
}

// TaskInfo is the subset of a Koji task record the runner reads.
type TaskInfo struct {
	ID      int           `xmlrpc:"id"`
	Method  string        `xmlrpc:"method"`
	State   int           `xmlrpc:"state"`
	Request []interface{} `xmlrpc:"request"`
}

// kwargs encodes Python keyword arguments the way the Koji hub expects
// them: as a trailing struct flagged with __starstar.
func kwargs(args map[string]interface{}) map[string]interface{} {
	kw := map[string]interface{}{"__starstar": true}
	for k, v := range args {
		kw[k] = v
	}
	return kw
}

// CreateRetryableTransport returns a transport retrying failed requests
// and logging the retries through logrus.
func CreateRetryableTransport(logger *logrus.Logger) http.RoundTripper {
	client := common.NewRetryableClient(logger, retryCount)
	return &rh.RoundTripper{Client: client}
}

func New(server string, transport http.RoundTripper) (*Koji, error) {
	client, err := xmlrpc.NewClient(server, transport)
	if err != nil {
		return nil, err
	}
	return &Koji{
		xmlrpc: client,
		server: server,
	}, nil
}

func (k *Koji) call(method string, args []interface{}, reply interface{}) error {
	err := k.xmlrpc.Call(method, args, reply)
	if err != nil {
		return fmt.Errorf("koji %s call to %s failed: %w", method, k.server, err)
	}
	return nil
}

// GetAPIVersion gets the version of the API of the remote Koji instance
func (k *Koji) GetAPIVersion() (int, error) {
	var version int
	err := k.call("getAPIVersion", nil, &version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// GetBuild looks up a build by its NVR.
func (k *Koji) GetBuild(nvr string) (*BuildInfo, error) {
	nvr = strings.TrimSpace(nvr)
	if nvr == "" {
		return nil, fmt.Errorf("empty build NVR")
	}

	var build BuildInfo
	err := k.call("getBuild", []interface{}{nvr, kwargs(map[string]interface{}{"strict": true})}, &build)
	if err != nil {
		return nil, err
	}

	return &build, nil
}

// GetTaskInfo looks up a task. With request set the hub includes the
// original task arguments.
func (k *Koji) GetTaskInfo(taskID int, request bool) (*TaskInfo, error) {
	var task TaskInfo
	err := k.call("getTaskInfo", []interface{}{taskID, kwargs(map[string]interface{}{"request": request, "strict": true})}, &task)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// ListBuilds returns the builds created by the given task.
func (k *Koji) ListBuilds(taskID int) ([]BuildInfo, error) {
	var builds []BuildInfo
	err := k.call("listBuilds", []interface{}{kwargs(map[string]interface{}{"taskID": taskID})}, &builds)
	if err != nil {
		return nil, err
	}

	return builds, nil
}
