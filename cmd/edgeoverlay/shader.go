package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/edgeoverlay/internal/edge"
	"github.com/ivlev/edgeoverlay/internal/shader"
	"github.com/ivlev/edgeoverlay/internal/texture"
)

func newShaderCommand(root *rootOptions) *cobra.Command {
	var (
		spirvPath    string
		uniformsPath string
		size         string
	)

	cmd := &cobra.Command{
		Use:   "shader",
		Short: "Print the WGSL edge shader, compile it to SPIR-V or pack its uniforms",
		Long: `Without flags the WGSL source is printed.

--spirv compiles the shader. --uniforms packs the EdgeUniforms block (std140)
resolved from the configuration for a texture of --size WxH, or for the first
frame of the configured input when --size is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if spirvPath == "" && uniformsPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), shader.Source())
				return nil
			}

			if spirvPath != "" {
				words, err := shader.CompileSPIRV()
				if err != nil {
					return err
				}
				buf := make([]byte, len(words)*4)
				for i, w := range words {
					binary.LittleEndian.PutUint32(buf[i*4:], w)
				}
				if err := os.WriteFile(spirvPath, buf, 0644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[+++] SPIR-V записан: %s (%d слов)\n", spirvPath, len(words))
			}

			if uniformsPath != "" {
				cfg, err := loadConfig(root.ConfigPath)
				if err != nil {
					return err
				}
				texel, err := texelSize(size, cfg.Input, cfg.DPI)
				if err != nil {
					return err
				}
				params, err := cfg.Resolve(texel)
				if err != nil {
					return err
				}
				u := shader.Uniforms{Offset: params.Offset, Tolerance: params.Tolerance}
				if err := os.WriteFile(uniformsPath, u.Bytes(), 0644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[+++] Uniforms записаны: %s (offset %v, tolerance %v)\n",
					uniformsPath, params.Offset, params.Tolerance)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&spirvPath, "spirv", "", "compile and write SPIR-V to this file")
	f.StringVar(&uniformsPath, "uniforms", "", "write the packed uniform block to this file")
	f.StringVar(&size, "size", "", "texture size WxH used to resolve texel offsets")
	return cmd
}

// texelSize returns the normalized size of one texel, from an explicit WxH
// or from the first frame of input.
func texelSize(size, input string, dpi int) (edge.Vec2, error) {
	if size != "" {
		ws, hs, _ := strings.Cut(size, "x")
		w, errW := strconv.Atoi(ws)
		h, errH := strconv.Atoi(hs)
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			return edge.Vec2{}, fmt.Errorf("неверный размер %q, ожидается WxH", size)
		}
		return edge.Vec2{X: 1 / float32(w), Y: 1 / float32(h)}, nil
	}
	if input == "" {
		return edge.Vec2{}, fmt.Errorf("нужен --size или input в конфигурации")
	}

	src, err := texture.Open(input, dpi)
	if err != nil {
		return edge.Vec2{}, fmt.Errorf("open input: %w", err)
	}
	defer src.Close()
	img, err := src.Load(0)
	if err != nil {
		return edge.Vec2{}, err
	}
	return texture.FromImage(img, texture.ClampToEdge).TexelSize(), nil
}
