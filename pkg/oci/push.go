// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oci

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"path/filepath"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/defaults"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

// ArtifactType identifies conversion outputs in a registry.
const ArtifactType = "application/vnd.h2c.compose.artifact"

// PushOptions configures a push.
type PushOptions struct {
	// SourceDir is the directory to publish.
	SourceDir string
	// Reference is the target; its Tag must be set.
	Reference *Reference
	// Version is recorded in the org.opencontainers.image.version annotation.
	Version string
	// Annotations are merged over the default manifest annotations.
	Annotations map[string]string
	// ReproducibleTimestamp sets org.opencontainers.image.created.
	ReproducibleTimestamp string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult describes a pushed artifact.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Push publishes opts.SourceDir to the remote registry.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	repo, err := remote.NewRepository(stripProtocol(opts.Reference.Registry) + "/" + opts.Reference.Repository)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()

	return PushTo(ctx, opts, repo)
}

// PushTo packs opts.SourceDir and copies it into dst under the reference tag.
func PushTo(ctx context.Context, opts PushOptions, dst oras.Target) (*PushResult, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	// Absolute path avoids ORAS working directory issues
	absDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to resolve source directory", err)
	}

	fs, err := file.New(absDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()

	// Deterministic tars keep the digest stable across identical outputs
	fs.TarReproducible = true

	layer, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, absDir)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to add source directory to store", err,
			map[string]any{"path": absDir})
	}

	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: annotations(opts),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to pack manifest", err)
	}

	tag := opts.Reference.Tag
	if err := fs.Tag(ctx, manifest, tag); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to tag manifest in local store", err)
	}

	slog.Info("pushing OCI artifact",
		"reference", opts.Reference.ImageReference(),
		"source", absDir,
	)

	desc, err := oras.Copy(ctx, fs, tag, dst, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to push artifact to registry", err,
			map[string]any{"reference": opts.Reference.ImageReference()})
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: opts.Reference.ImageReference(),
	}, nil
}

func validate(opts PushOptions) error {
	if opts.Reference == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "OCI reference is required")
	}
	if opts.Reference.Tag == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "tag is required to push OCI artifact")
	}
	if opts.SourceDir == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "source directory is required")
	}
	return ValidateRegistryReference(opts.Reference.Registry, opts.Reference.Repository)
}

func annotations(opts PushOptions) map[string]string {
	out := map[string]string{
		ociv1.AnnotationTitle: "h2c-servicemonitor output",
	}
	if opts.Version != "" {
		out[ociv1.AnnotationVersion] = opts.Version
	}
	if opts.ReproducibleTimestamp != "" {
		out[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}
	for k, v := range opts.Annotations {
		out[k] = v
	}
	return out
}

func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable, pushing anonymously", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}
