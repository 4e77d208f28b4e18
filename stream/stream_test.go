//
// Copyright 2019-2020 Nestybox, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package stream

import (
	"io"
	"testing"

	"github.com/nestybox/osal/domain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {

	// Disable log generation during UT.
	logrus.SetOutput(io.Discard)

	m.Run()
}

func newService(t *testing.T) domain.StreamServiceIface {
	t.Helper()

	fs := NewStreamService()
	require.NoError(t, fs.Setup())
	require.True(t, fs.IsConstructed())

	return fs
}

func Test_streamService_Setup(t *testing.T) {

	fs := NewStreamService()
	assert.False(t, fs.IsConstructed())

	// Non-constructed service short-circuits.
	assert.Nil(t, fs.Cout())
	assert.Nil(t, fs.Cerr())
	assert.False(t, fs.SetCout(NewOutStream(domain.ChannelCout)))

	require.NoError(t, fs.Setup())
	assert.True(t, fs.IsConstructed())

	require.NotNil(t, fs.Cout())
	require.NotNil(t, fs.Cerr())
	assert.Equal(t, domain.ChannelCout, fs.Cout().Channel())
	assert.Equal(t, domain.ChannelCerr, fs.Cerr().Channel())
}

func Test_streamService_redirection(t *testing.T) {

	fs := newService(t)

	// Capture the construction-time defaults.
	p0 := fs.Cout()
	e0 := fs.Cerr()

	custom, err := NewFileOutStream(
		afero.NewMemMapFs(), "/cout.log", domain.ChannelCout)
	require.NoError(t, err)

	// Redirection is immediate.
	assert.True(t, fs.SetCout(custom))
	assert.Equal(t, domain.OutStreamIface(custom), fs.Cout())
	assert.Equal(t, e0, fs.Cerr())

	// Round-trip back to the default.
	fs.ResetCout()
	assert.Equal(t, p0, fs.Cout())

	// Same dance on the error channel.
	assert.True(t, fs.SetCerr(custom))
	assert.Equal(t, domain.OutStreamIface(custom), fs.Cerr())
	fs.ResetCerr()
	assert.Equal(t, e0, fs.Cerr())

	// A nil target is rejected without touching the slots.
	assert.False(t, fs.SetCout(nil))
	assert.Equal(t, p0, fs.Cout())
}

func Test_streamService_registry(t *testing.T) {

	fs := newService(t)

	memFs := afero.NewMemMapFs()
	s1, err := NewFileOutStream(memFs, "/a.log", domain.ChannelCout)
	require.NoError(t, err)
	s2, err := NewFileOutStream(memFs, "/b.log", domain.ChannelCerr)
	require.NoError(t, err)

	require.NoError(t, fs.Register("alpha", s1))
	require.NoError(t, fs.Register("beta", s2))

	// Duplicate and invalid registrations fail.
	assert.Error(t, fs.Register("alpha", s2))
	assert.Error(t, fs.Register("", s1))
	assert.Error(t, fs.Register("gamma", nil))

	got, ok := fs.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, domain.OutStreamIface(s1), got)

	_, ok = fs.Lookup("unknown")
	assert.False(t, ok)

	require.NoError(t, fs.Unregister("alpha"))
	_, ok = fs.Lookup("alpha")
	assert.False(t, ok)

	assert.Error(t, fs.Unregister("alpha"))
}

func Test_fileOutStream_write(t *testing.T) {

	memFs := afero.NewMemMapFs()

	s, err := NewFileOutStream(memFs, "/out.log", domain.ChannelCout)
	require.NoError(t, err)
	require.True(t, s.IsConstructed())

	s.Write("counter = ").WriteInt(-42).Write("\n").Flush()

	data, err := afero.ReadFile(memFs, "/out.log")
	require.NoError(t, err)
	assert.Equal(t, "counter = -42\n", string(data))
}

func Test_fileOutStream_flushIdempotence(t *testing.T) {

	memFs := afero.NewMemMapFs()

	s, err := NewFileOutStream(memFs, "/out.log", domain.ChannelCout)
	require.NoError(t, err)

	s.Write("x")
	s.Flush()

	data, err := afero.ReadFile(memFs, "/out.log")
	require.NoError(t, err)

	// A flush with no writes in between changes nothing.
	s.Flush()

	again, err := afero.ReadFile(memFs, "/out.log")
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func Test_fileOutStream_close(t *testing.T) {

	memFs := afero.NewMemMapFs()

	s, err := NewFileOutStream(memFs, "/out.log", domain.ChannelCerr)
	require.NoError(t, err)

	s.Write("tail")
	require.NoError(t, s.Close())

	// Close flushed the pending bytes and turned the stream dead.
	data, err := afero.ReadFile(memFs, "/out.log")
	require.NoError(t, err)
	assert.Equal(t, "tail", string(data))

	assert.False(t, s.IsConstructed())
	s.Write("ignored").Flush()

	again, err := afero.ReadFile(memFs, "/out.log")
	require.NoError(t, err)
	assert.Equal(t, "tail", string(again))
}

func Test_outStream_construct(t *testing.T) {

	cout := NewOutStream(domain.ChannelCout)
	require.True(t, cout.IsConstructed())
	assert.Equal(t, domain.ChannelCout, cout.Channel())

	cerr := NewOutStream(domain.ChannelCerr)
	require.True(t, cerr.IsConstructed())
	assert.Equal(t, domain.ChannelCerr, cerr.Channel())

	// Unknown channel designations cannot construct.
	bad := NewOutStream(domain.StreamChannel(99))
	assert.False(t, bad.IsConstructed())
	bad.Write("dropped").Flush()
}
