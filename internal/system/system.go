package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ivlev/edgeoverlay/internal/texture"
)

// Host описывает машину, на которой шел рендер. Поля, которые gopsutil
// не смог прочитать, остаются нулевыми.
type Host struct {
	CPUModel    string
	LogicalCPUs int
	TotalMemory uint64
	AvailMemory uint64
	GOMAXPROCS  int
}

func HostInfo() Host {
	h := Host{GOMAXPROCS: runtime.GOMAXPROCS(0)}

	if n, err := cpu.Counts(true); err == nil {
		h.LogicalCPUs = n
	} else {
		h.LogicalCPUs = runtime.NumCPU()
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.TotalMemory = vm.Total
		h.AvailMemory = vm.Available
	}
	return h
}

func (h Host) String() string {
	model := h.CPUModel
	if model == "" {
		model = "unknown cpu"
	}
	return fmt.Sprintf("%s, %d cpus (GOMAXPROCS %d), %d/%d MiB free",
		model, h.LogicalCPUs, h.GOMAXPROCS, h.AvailMemory>>20, h.TotalMemory>>20)
}

// DefaultWorkers returns the worker count used when the configuration
// leaves it at zero.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// FindLatestImage ищет самый свежий файл текстуры в указанной директории.
func FindLatestImage(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !texture.IsImageFile(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("%w in %s", texture.ErrNoImages, dir)
	}

	return latestFile, nil
}
