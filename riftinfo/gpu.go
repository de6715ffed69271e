package riftinfo

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
	"github.com/xlab/tablewriter"
)

// GPU is one physical device as reported by the Vulkan loader.
type GPU struct {
	Name          string
	Vendor        uint32
	Type          string
	APIVersion    string
	DriverVersion string
}

var appInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   "RiftInfo\x00",
	PEngineName:        "go-vr\x00",
}

// ListGPUs creates a bare instance and enumerates every physical device.
// vk.Init must have succeeded before.
func ListGPUs() ([]GPU, error) {
	var instance vk.Instance
	err := vk.Error(vk.CreateInstance(&vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}, nil, &instance))
	if err != nil {
		return nil, fmt.Errorf("vkCreateInstance failed with %s", err)
	}
	vk.InitInstance(instance)
	defer vk.DestroyInstance(instance, nil)

	devices, err := getPhysicalDevices(instance)
	if err != nil {
		return nil, err
	}
	gpus := make([]GPU, 0, len(devices))
	for _, dev := range devices {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(dev, &props)
		props.Deref()
		gpus = append(gpus, GPU{
			Name:          vk.ToString(props.DeviceName[:]),
			Vendor:        props.VendorID,
			Type:          physicalDeviceType(props.DeviceType),
			APIVersion:    fmt.Sprint(vk.Version(props.ApiVersion)),
			DriverVersion: fmt.Sprint(vk.Version(props.DriverVersion)),
		})
	}
	return gpus, nil
}

func getPhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var gpuCount uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(instance, &gpuCount, nil))
	if err != nil {
		return nil, fmt.Errorf("vkEnumeratePhysicalDevices failed with %s", err)
	}
	if gpuCount == 0 {
		return nil, fmt.Errorf("getPhysicalDevices: no GPUs found on the system")
	}
	gpuList := make([]vk.PhysicalDevice, gpuCount)
	err = vk.Error(vk.EnumeratePhysicalDevices(instance, &gpuCount, gpuList))
	if err != nil {
		return nil, fmt.Errorf("vkEnumeratePhysicalDevices failed with %s", err)
	}
	return gpuList, nil
}

func physicalDeviceType(dev vk.PhysicalDeviceType) string {
	switch dev {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "Integrated GPU"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "Discrete GPU"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "Virtual GPU"
	case vk.PhysicalDeviceTypeCpu:
		return "CPU"
	case vk.PhysicalDeviceTypeOther:
		return "Other"
	default:
		return "Unknown"
	}
}

func GPUTable(gpus []GPU) string {
	table := tablewriter.CreateTable()
	table.UTF8Box()
	table.AddTitle("GPUS")
	for i, gpu := range gpus {
		if i > 0 {
			table.AddSeparator()
		}
		table.AddRow("Name", gpu.Name)
		table.AddRow("Vendor", fmt.Sprintf("%x", gpu.Vendor))
		table.AddRow("Type", gpu.Type)
		table.AddRow("API Version", gpu.APIVersion)
		table.AddRow("Driver Version", gpu.DriverVersion)
	}
	return table.Render()
}
