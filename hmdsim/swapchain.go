package hmdsim

import (
	"github.com/pkg/errors"

	"github.com/go-vr/demos/hmd"
)

type swapChain struct {
	sim       *Sim
	desc      hmd.SwapChainDesc
	textures  []uint32
	current   int
	committed int
	destroyed bool
}

func (s *Sim) CreateSwapChain(desc hmd.SwapChainDesc) (hmd.SwapChain, error) {
	if !s.created {
		return nil, errors.Wrap(hmd.ErrDeviceUnavailable, "hmdsim: create swap chain")
	}
	if s.Faults.SwapChain != nil {
		return nil, s.Faults.SwapChain
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, errors.Errorf("hmdsim: invalid swap chain size %dx%d", desc.Width, desc.Height)
	}
	if desc.Format != hmd.FormatR8G8B8A8UnormSRGB && desc.Format != hmd.FormatR8G8B8A8Unorm {
		return nil, errors.Errorf("hmdsim: unsupported texture format %d", desc.Format)
	}
	if desc.SampleCount > 1 {
		return nil, errors.New("hmdsim: multisampled swap chains are not supported")
	}
	n := s.cfg.SwapChainLength
	if n <= 0 {
		n = 3
	}
	chain := &swapChain{
		sim:       s,
		desc:      desc,
		committed: -1,
	}
	size := hmd.Sizei{W: desc.Width, H: desc.Height}
	for i := 0; i < n; i++ {
		tex, err := s.alloc.NewTexture(size, desc.Format)
		if err != nil {
			chain.Destroy()
			return nil, errors.Wrapf(err, "hmdsim: swap chain texture %d", i)
		}
		chain.textures = append(chain.textures, tex)
	}
	s.chains = append(s.chains, chain)
	logger.Infof("swap chain %dx%d with %d textures", desc.Width, desc.Height, n)
	return chain, nil
}

func (c *swapChain) Length() int {
	return len(c.textures)
}

func (c *swapChain) CurrentIndex() int {
	return c.current
}

func (c *swapChain) Buffer(i int) uint32 {
	return c.textures[i]
}

func (c *swapChain) Commit() error {
	if c.destroyed {
		return errors.New("hmdsim: commit on destroyed swap chain")
	}
	if c.sim.Faults.Commit != nil {
		return c.sim.Faults.Commit
	}
	c.committed = c.current
	c.current = (c.current + 1) % len(c.textures)
	return nil
}

func (c *swapChain) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	for _, tex := range c.textures {
		c.sim.alloc.DeleteTexture(tex)
	}
}

type mirrorTexture struct {
	sim       *Sim
	size      hmd.Sizei
	tex       uint32
	destroyed bool
}

func (s *Sim) CreateMirrorTexture(desc hmd.MirrorDesc) (hmd.MirrorTexture, error) {
	if !s.created {
		return nil, errors.Wrap(hmd.ErrDeviceUnavailable, "hmdsim: create mirror")
	}
	if s.Faults.Mirror != nil {
		return nil, s.Faults.Mirror
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, errors.Errorf("hmdsim: invalid mirror size %dx%d", desc.Width, desc.Height)
	}
	size := hmd.Sizei{W: desc.Width, H: desc.Height}
	tex, err := s.alloc.NewTexture(size, desc.Format)
	if err != nil {
		return nil, errors.Wrap(err, "hmdsim: mirror texture")
	}
	if s.mirror != nil {
		s.mirror.Destroy()
	}
	s.mirror = &mirrorTexture{
		sim:  s,
		size: size,
		tex:  tex,
	}
	return s.mirror, nil
}

func (m *mirrorTexture) Size() hmd.Sizei {
	return m.size
}

func (m *mirrorTexture) Buffer() uint32 {
	return m.tex
}

func (m *mirrorTexture) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.sim.alloc.DeleteTexture(m.tex)
}
